package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de inventario
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor a 0 kg")
	ErrConfiguration     = errors.New("el producto no tiene peso por bulto definido")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrCategoryMismatch  = errors.New("el producto no es ingrediente de dieta")
	ErrEmptyRecipe       = errors.New("la dieta no tiene ingredientes")
	ErrDuplicateFolio    = errors.New("folio duplicado")
	ErrStockConflict     = errors.New("conflicto de concurrencia sobre el stock")
)

// StockError detalla un rechazo por stock insuficiente. Envuelve ErrInsufficientStock.
type StockError struct {
	ProductID   string
	ProductName string
	Disponible  decimal.Decimal
	Solicitado  decimal.Decimal
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s. Disponible: %s kg, solicitado: %s kg",
		e.ProductName, e.Disponible.StringFixed(2), e.Solicitado.StringFixed(2))
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// ProductError asocia un error de validación al producto que lo provocó.
type ProductError struct {
	ProductID   string
	ProductName string
	Err         error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%s: %v", e.ProductName, e.Err)
}

func (e *ProductError) Unwrap() error { return e.Err }
