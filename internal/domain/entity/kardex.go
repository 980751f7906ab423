package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de línea de kardex.
const (
	KardexEntrada = "ENTRADA"
	KardexSalida  = "SALIDA"
	KardexMerma   = "MERMA"
)

// KardexMovimiento es un evento del libro de un producto, con signo ya aplicado.
type KardexMovimiento struct {
	Seq        int64
	FechaHora  time.Time
	Tipo       string // ENTRADA, SALIDA, MERMA
	Detalle    string // origen, tipo de salida o motivo
	Referencia string // folio o id del registro
	Kg         decimal.Decimal
	UsuarioID  string
}

// KardexLinea es un movimiento con el saldo acumulado tras aplicarlo.
type KardexLinea struct {
	KardexMovimiento
	Saldo decimal.Decimal
}
