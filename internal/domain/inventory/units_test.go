package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func peso(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestTotalKg_CombinaUnidades(t *testing.T) {
	total, err := inventory.TotalKg(entity.Cantidad{Kg: dec("10"), Toneladas: dec("1"), Bultos: 5}, peso("20"))
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("1110")), "10 + 1000 + 100 = 1110, obtuvo %s", total)
}

func TestTotalKg_DecimalesSinDeriva(t *testing.T) {
	total, err := inventory.TotalKg(entity.Cantidad{Kg: dec("0.10"), Toneladas: dec("0.25")}, decimal.NullDecimal{})
	require.NoError(t, err)
	assert.Equal(t, "250.10", total.StringFixed(2))
}

func TestTotalKg_BultosSinPesoConfigurado(t *testing.T) {
	_, err := inventory.TotalKg(entity.Cantidad{Bultos: 3}, decimal.NullDecimal{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = inventory.TotalKg(entity.Cantidad{Bultos: 3}, peso("0"))
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestTotalKg_BultosEnCeroNoRequierePeso(t *testing.T) {
	total, err := inventory.TotalKg(entity.Cantidad{Kg: dec("5")}, decimal.NullDecimal{})
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("5")))
}

func TestTotalKg_RechazaMasDeDosDecimales(t *testing.T) {
	_, err := inventory.TotalKg(entity.Cantidad{Kg: dec("1.005")}, decimal.NullDecimal{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.TotalKg(entity.Cantidad{Toneladas: dec("0.0001")}, decimal.NullDecimal{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// ceros a la derecha no cuentan como precisión extra
	_, err = inventory.TotalKg(entity.Cantidad{Kg: dec("1.500")}, decimal.NullDecimal{})
	assert.NoError(t, err)
}

func TestTotalKg_RechazaNegativos(t *testing.T) {
	_, err := inventory.TotalKg(entity.Cantidad{Kg: dec("-1")}, decimal.NullDecimal{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.TotalKg(entity.Cantidad{Bultos: -2}, peso("25"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestTotalKgPositivo_TodoEnCero(t *testing.T) {
	_, err := inventory.TotalKgPositivo(entity.Cantidad{}, decimal.NullDecimal{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestFormatFolio(t *testing.T) {
	assert.Equal(t, "VEN-00001", inventory.FormatFolio(entity.MovimientoVenta, 1))
	assert.Equal(t, "DIE-00042", inventory.FormatFolio(entity.MovimientoDieta, 42))
	assert.Equal(t, "TRA-123456", inventory.FormatFolio(entity.MovimientoTraslado, 123456))
}
