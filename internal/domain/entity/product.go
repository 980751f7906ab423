package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almacén. El stock SIEMPRE está en kg y solo
// lo modifica el motor de inventario (entradas, salidas, mermas y dietas).
type Product struct {
	ID           string
	Name         string
	CategoryID   string
	CategoryRole CategoriaRol // resuelto desde la categoría al cargar el producto
	Description  string
	StockKg      decimal.Decimal
	PesoPorBulto decimal.NullDecimal // kg por bulto; opcional
	Active       bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EsIngrediente indica si el producto puede usarse en la receta de una dieta.
func (p *Product) EsIngrediente() bool {
	return p.CategoryRole == RolIngrediente
}
