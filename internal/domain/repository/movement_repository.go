package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
)

// MovementFilter filtros comunes para listar entradas, salidas y mermas.
type MovementFilter struct {
	ProductID string
	Desde     *time.Time
	Hasta     *time.Time // exclusivo
	Limit     int
	Offset    int
}

// EntradaRepository puerto de persistencia para entradas (solo alta y consulta).
type EntradaRepository interface {
	Create(ctx context.Context, entrada *entity.Entrada) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Entrada, error)
}

// MovimientoRepository persiste encabezado y detalles de salidas juntos.
type MovimientoRepository interface {
	Create(ctx context.Context, movimiento *entity.Movimiento) error
	GetByID(ctx context.Context, id string) (*entity.Movimiento, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movimiento, error)
}

// MermaRepository puerto de persistencia para mermas.
type MermaRepository interface {
	Create(ctx context.Context, merma *entity.Merma) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Merma, error)
}

// FolioRepository genera el siguiente número de la secuencia de un prefijo.
// Debe ejecutarse dentro de la transacción del movimiento para no dejar huecos.
type FolioRepository interface {
	Next(ctx context.Context, prefix string) (int64, error)
}

// KardexRepository lee los eventos de un producto con signo aplicado,
// ordenados por fecha y seq.
type KardexRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]entity.KardexMovimiento, error)
}
