package inventory

import (
	"context"

	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

// Repos agrupa los repositorios del motor. Dentro de TxRunner.Run todos están atados a la misma tx.
type Repos struct {
	Products    repository.ProductRepository
	Categories  repository.CategoryRepository
	Entradas    repository.EntradaRepository
	Movimientos repository.MovimientoRepository
	Mermas      repository.MermaRepository
	Folios      repository.FolioRepository
	Dietas      repository.DietaRepository
	Terceros    repository.TerceroRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// KardexInvalidator descarta proyecciones de kardex cacheadas tras un commit.
type KardexInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...string) error
}
