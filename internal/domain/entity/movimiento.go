package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TipoMovimiento tipos de salida de inventario.
type TipoMovimiento string

const (
	MovimientoVenta    TipoMovimiento = "VENTA"
	MovimientoTraslado TipoMovimiento = "TRASLADO"
	MovimientoPedido   TipoMovimiento = "PEDIDO"
	MovimientoDieta    TipoMovimiento = "DIETA" // consumo de ingredientes al preparar una dieta
)

// Valid indica si el tipo es uno de los reconocidos.
func (t TipoMovimiento) Valid() bool {
	switch t {
	case MovimientoVenta, MovimientoTraslado, MovimientoPedido, MovimientoDieta:
		return true
	}
	return false
}

// PrefijoFolio devuelve el prefijo de folio del tipo (VEN, TRA, PED, DIE).
func (t TipoMovimiento) PrefijoFolio() string {
	switch t {
	case MovimientoVenta:
		return "VEN"
	case MovimientoTraslado:
		return "TRA"
	case MovimientoPedido:
		return "PED"
	case MovimientoDieta:
		return "DIE"
	}
	return "SAL"
}

// Movimiento es el encabezado de una salida; todas sus líneas comparten el tipo.
type Movimiento struct {
	ID        string
	Folio     string
	Tipo      TipoMovimiento
	ClienteID string
	LugarID   string
	ChoferID  string
	UnidadID  string
	Notas     string
	FechaHora time.Time
	UsuarioID string
	Detalles  []MovimientoDetalle
}

// TotalKg suma los kg de todas las líneas.
func (m *Movimiento) TotalKg() decimal.Decimal {
	total := decimal.Zero
	for _, d := range m.Detalles {
		total = total.Add(d.TotalKg)
	}
	return total
}

// MovimientoDetalle línea de una salida: descuenta TotalKg del producto.
type MovimientoDetalle struct {
	ID           string
	Seq          int64
	MovimientoID string
	ProductID    string
	Cantidad     Cantidad
	TotalKg      decimal.Decimal
}
