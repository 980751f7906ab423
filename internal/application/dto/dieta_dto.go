package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDietaRequest body para POST /api/dietas.
type CreateDietaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=1,max=150"`
	Etapa  string `json:"etapa" validate:"required,oneof=pre_inicio iniciador crecimiento desarrollo engorda gestacion lactacion"`
}

// GuardarIngredientesRequest body para PUT /api/dietas/:id/ingredientes.
// kg <= 0 elimina el ingrediente de la receta.
type GuardarIngredientesRequest struct {
	Ingredientes []IngredienteRequest `json:"ingredientes" validate:"required,dive"`
}

// IngredienteRequest kg de un ingrediente por unidad de receta.
type IngredienteRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Kg        decimal.Decimal `json:"kg"`
}

// PrepararDietaRequest body para POST /api/dietas/:id/preparar.
type PrepararDietaRequest struct {
	Notas string `json:"notas" validate:"max=500"`
	Lotes int    `json:"lotes" validate:"min=0,max=1000"`
}

// DetalleDietaResponse ingrediente de la receta.
type DetalleDietaResponse struct {
	ProductID string          `json:"product_id"`
	Kg        decimal.Decimal `json:"kg"`
}

// DietaResponse salida de una dieta.
type DietaResponse struct {
	ID               string                 `json:"id"`
	Nombre           string                 `json:"nombre"`
	Etapa            string                 `json:"etapa"`
	ProductoDietaID  string                 `json:"producto_dieta_id"`
	TotalKg          decimal.Decimal        `json:"total_kg"`
	Estado           string                 `json:"estado"`
	Activa           bool                   `json:"activa"`
	Eliminada        bool                   `json:"eliminada"`
	FechaPreparacion *time.Time             `json:"fecha_preparacion,omitempty"`
	FechaCreacion    time.Time              `json:"fecha_creacion"`
	Ingredientes     []DetalleDietaResponse `json:"ingredientes"`
}

// PreparacionResponse registro de una preparación.
type PreparacionResponse struct {
	ID           string          `json:"id"`
	DietaID      string          `json:"dieta_id"`
	CantidadKg   decimal.Decimal `json:"cantidad_kg"`
	Lotes        int             `json:"lotes"`
	UsuarioID    string          `json:"usuario_id"`
	FechaHora    time.Time       `json:"fecha_hora"`
	Notas        string          `json:"notas,omitempty"`
	MovimientoID string          `json:"movimiento_id"`
	EntradaID    string          `json:"entrada_id"`
}
