package repository

import (
	"context"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetByRole devuelve la primera categoría con el rol indicado (nil si no existe).
	GetByRole(ctx context.Context, role entity.CategoriaRol) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
}
