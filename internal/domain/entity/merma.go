package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MotivoMerma causa de una pérdida.
type MotivoMerma string

const (
	MermaHumedad   MotivoMerma = "HUMEDAD"
	MermaRotura    MotivoMerma = "ROTURA"
	MermaCaducidad MotivoMerma = "CADUCIDAD"
	MermaDerrame   MotivoMerma = "DERRAME"
	MermaOtro      MotivoMerma = "OTRO"
)

// Valid indica si el motivo es uno de los reconocidos.
func (m MotivoMerma) Valid() bool {
	switch m {
	case MermaHumedad, MermaRotura, MermaCaducidad, MermaDerrame, MermaOtro:
		return true
	}
	return false
}

// Merma registra una pérdida de producto; siempre reduce stock.
type Merma struct {
	ID          string
	Seq         int64
	ProductID   string
	Motivo      MotivoMerma
	Descripcion string
	Cantidad    Cantidad
	TotalKg     decimal.Decimal
	FechaHora   time.Time
	UsuarioID   string
}
