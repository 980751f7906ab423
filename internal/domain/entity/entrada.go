package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrigenEntrada indica de dónde proviene una entrada.
type OrigenEntrada string

const (
	OrigenCompra  OrigenEntrada = "COMPRA"  // recepción de proveedor
	OrigenDieta   OrigenEntrada = "DIETA"   // producto terminado de una preparación
	OrigenInicial OrigenEntrada = "INICIAL" // saldo inicial cargado por seed
)

// Entrada registra un ingreso de stock. Inmutable una vez creada.
type Entrada struct {
	ID            string
	Seq           int64
	ProductID     string
	ProveedorID   string // vacío para entradas internas
	Origen        OrigenEntrada
	Cantidad      Cantidad
	TotalKg       decimal.Decimal
	PreparacionID string
	FechaHora     time.Time
	UsuarioID     string
}
