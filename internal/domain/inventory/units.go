package inventory

import (
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MaxDecimales precisión máxima aceptada en kg y toneladas.
const MaxDecimales = 2

var kgPorTonelada = decimal.NewFromInt(1000)

// TotalKg convierte una cantidad mixta a kilogramos (servicio de dominio).
// Total = Kg + Toneladas*1000 + Bultos*PesoPorBulto
// No redondea: más de dos decimales o componentes negativos son ErrInvalidQuantity.
// Bultos > 0 sin peso por bulto configurado es ErrConfiguration.
func TotalKg(c entity.Cantidad, pesoPorBulto decimal.NullDecimal) (decimal.Decimal, error) {
	if c.Kg.IsNegative() || c.Toneladas.IsNegative() || c.Bultos < 0 {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if excedeDecimales(c.Kg) || excedeDecimales(c.Toneladas) {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	total := c.Kg.Add(c.Toneladas.Mul(kgPorTonelada))
	if c.Bultos > 0 {
		if !pesoPorBulto.Valid || !pesoPorBulto.Decimal.IsPositive() {
			return decimal.Zero, domain.ErrConfiguration
		}
		total = total.Add(decimal.NewFromInt(c.Bultos).Mul(pesoPorBulto.Decimal))
	}
	return total, nil
}

// TotalKgPositivo igual que TotalKg pero rechaza totales <= 0.
func TotalKgPositivo(c entity.Cantidad, pesoPorBulto decimal.NullDecimal) (decimal.Decimal, error) {
	total, err := TotalKg(c, pesoPorBulto)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.IsPositive() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	return total, nil
}

// excedeDecimales compara contra la versión truncada para no depender del exponente interno.
func excedeDecimales(d decimal.Decimal) bool {
	return !d.Equal(d.Truncate(MaxDecimales))
}
