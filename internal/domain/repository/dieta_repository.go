package repository

import (
	"context"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// DietaRepository puerto de persistencia para dietas, sus detalles y preparaciones.
type DietaRepository interface {
	Create(ctx context.Context, dieta *entity.Dieta) error
	// GetByID devuelve la dieta con sus detalles (nil si no existe).
	GetByID(ctx context.Context, id string) (*entity.Dieta, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Dieta, error)
	Update(ctx context.Context, dieta *entity.Dieta) error
	ReplaceDetalles(ctx context.Context, dietaID string, detalles []entity.DetalleDieta) error
	List(ctx context.Context, eliminadas bool) ([]*entity.Dieta, error)
	CreatePreparacion(ctx context.Context, prep *entity.PreparacionDieta) error
	ListPreparaciones(ctx context.Context, dietaID string) ([]*entity.PreparacionDieta, error)
}
