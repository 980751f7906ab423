package entity

import "github.com/shopspring/decimal"

// Cantidad es una cantidad capturada en unidades mixtas. Los campos no informados valen cero.
type Cantidad struct {
	Kg        decimal.Decimal `json:"kg"`
	Toneladas decimal.Decimal `json:"toneladas"`
	Bultos    int64           `json:"bultos"`
}

// EnKg construye una cantidad expresada solo en kilogramos.
func EnKg(kg decimal.Decimal) Cantidad {
	return Cantidad{Kg: kg}
}
