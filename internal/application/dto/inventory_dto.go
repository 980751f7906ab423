package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CantidadDTO cantidad en unidades mixtas; los campos omitidos valen 0.
type CantidadDTO struct {
	Kg        decimal.Decimal `json:"kg"`
	Toneladas decimal.Decimal `json:"toneladas"`
	Bultos    int64           `json:"bultos" validate:"min=0"`
}

// RegisterEntradaRequest body para POST /api/entradas.
type RegisterEntradaRequest struct {
	ProductID   string      `json:"product_id" validate:"required,uuid"`
	ProveedorID string      `json:"proveedor_id" validate:"omitempty,uuid"`
	Cantidad    CantidadDTO `json:"cantidad"`
}

// LineaSalidaRequest línea de una salida.
type LineaSalidaRequest struct {
	ProductID string      `json:"product_id" validate:"required,uuid"`
	Cantidad  CantidadDTO `json:"cantidad"`
}

// RegisterSalidaRequest body para POST /api/salidas. El tipo DIETA solo lo genera la preparación de dietas.
type RegisterSalidaRequest struct {
	Tipo      string               `json:"tipo" validate:"required,oneof=VENTA TRASLADO PEDIDO"`
	ClienteID string               `json:"cliente_id" validate:"omitempty,uuid"`
	LugarID   string               `json:"lugar_id" validate:"omitempty,uuid"`
	ChoferID  string               `json:"chofer_id" validate:"omitempty,uuid"`
	UnidadID  string               `json:"unidad_id" validate:"omitempty,uuid"`
	Notas     string               `json:"notas" validate:"max=500"`
	Lineas    []LineaSalidaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// RegisterMermaRequest body para POST /api/mermas.
type RegisterMermaRequest struct {
	ProductID   string      `json:"product_id" validate:"required,uuid"`
	Motivo      string      `json:"motivo" validate:"required,oneof=HUMEDAD ROTURA CADUCIDAD DERRAME OTRO"`
	Descripcion string      `json:"descripcion" validate:"max=500"`
	Cantidad    CantidadDTO `json:"cantidad"`
}

// EntradaResponse salida de una entrada.
type EntradaResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProveedorID   string          `json:"proveedor_id,omitempty"`
	Origen        string          `json:"origen"`
	Cantidad      CantidadDTO     `json:"cantidad"`
	TotalKg       decimal.Decimal `json:"total_kg"`
	PreparacionID string          `json:"preparacion_id,omitempty"`
	FechaHora     time.Time       `json:"fecha_hora"`
	UsuarioID     string          `json:"usuario_id"`
}

// DetalleSalidaResponse línea de una salida.
type DetalleSalidaResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Cantidad  CantidadDTO     `json:"cantidad"`
	TotalKg   decimal.Decimal `json:"total_kg"`
}

// SalidaResponse salida de un movimiento con sus detalles.
type SalidaResponse struct {
	ID        string                  `json:"id"`
	Folio     string                  `json:"folio"`
	Tipo      string                  `json:"tipo"`
	ClienteID string                  `json:"cliente_id,omitempty"`
	LugarID   string                  `json:"lugar_id,omitempty"`
	ChoferID  string                  `json:"chofer_id,omitempty"`
	UnidadID  string                  `json:"unidad_id,omitempty"`
	Notas     string                  `json:"notas,omitempty"`
	FechaHora time.Time               `json:"fecha_hora"`
	UsuarioID string                  `json:"usuario_id"`
	TotalKg   decimal.Decimal         `json:"total_kg"`
	Detalles  []DetalleSalidaResponse `json:"detalles"`
}

// MermaResponse salida de una merma.
type MermaResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Motivo      string          `json:"motivo"`
	Descripcion string          `json:"descripcion,omitempty"`
	Cantidad    CantidadDTO     `json:"cantidad"`
	TotalKg     decimal.Decimal `json:"total_kg"`
	FechaHora   time.Time       `json:"fecha_hora"`
	UsuarioID   string          `json:"usuario_id"`
}

// KardexLineaResponse línea del kardex con saldo acumulado.
type KardexLineaResponse struct {
	FechaHora  time.Time       `json:"fecha_hora"`
	Tipo       string          `json:"tipo"`
	Detalle    string          `json:"detalle,omitempty"`
	Referencia string          `json:"referencia"`
	Kg         decimal.Decimal `json:"kg"`
	Saldo      decimal.Decimal `json:"saldo"`
	UsuarioID  string          `json:"usuario_id"`
}

// KardexResponse kardex de un producto.
type KardexResponse struct {
	ProductID    string                `json:"product_id"`
	ProductName  string                `json:"product_name"`
	StockKg      decimal.Decimal       `json:"stock_kg"`
	SaldoInicial decimal.Decimal       `json:"saldo_inicial"`
	SaldoFinal   decimal.Decimal       `json:"saldo_final"`
	Movimientos  []KardexLineaResponse `json:"movimientos"`
}

// StockErrorDetails detalle de un rechazo por stock insuficiente.
type StockErrorDetails struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Disponible  decimal.Decimal `json:"disponible_kg"`
	Solicitado  decimal.Decimal `json:"solicitado_kg"`
}
