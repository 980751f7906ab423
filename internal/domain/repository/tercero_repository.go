package repository

import (
	"context"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// TerceroFilter filtros del listado de un catálogo de terceros.
type TerceroFilter struct {
	Tipo   entity.TipoTercero
	Buscar string // coincidencia parcial en nombre o placa, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// TerceroRepository define el puerto de persistencia para los catálogos de terceros.
// Cada tipo vive en su propia tabla; el tipo viaja en cada operación.
type TerceroRepository interface {
	Create(ctx context.Context, t *entity.Tercero) error
	// GetByID devuelve nil si no existe un tercero de ese tipo con ese id.
	GetByID(ctx context.Context, tipo entity.TipoTercero, id string) (*entity.Tercero, error)
	List(ctx context.Context, f TerceroFilter) ([]*entity.Tercero, error)
	Update(ctx context.Context, t *entity.Tercero) error
	// Delete borra el registro; si algún movimiento lo referencia devuelve ErrConflict.
	Delete(ctx context.Context, tipo entity.TipoTercero, id string) error
}
