package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Role string `json:"role" validate:"omitempty,oneof=GENERAL INGREDIENTE DIETA"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto. El stock inicia en 0 y solo cambia con movimientos.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=100"`
	CategoryID   string           `json:"category_id" validate:"required,uuid"`
	Description  string           `json:"description"`
	PesoPorBulto *decimal.Decimal `json:"peso_por_bulto"`
}

// UpdateProductRequest entrada para editar campos administrativos (sin stock).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=100"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,uuid"`
	Description  *string          `json:"description"`
	PesoPorBulto *decimal.Decimal `json:"peso_por_bulto"`
	// ClearPesoPorBulto quita el peso por bulto configurado.
	ClearPesoPorBulto bool  `json:"clear_peso_por_bulto"`
	Active            *bool `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	CategoryID   string           `json:"category_id"`
	CategoryRole string           `json:"category_role"`
	Description  string           `json:"description"`
	StockKg      decimal.Decimal  `json:"stock_kg"`
	PesoPorBulto *decimal.Decimal `json:"peso_por_bulto,omitempty"`
	Active       bool             `json:"active"`
	Deleted      bool             `json:"deleted"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
