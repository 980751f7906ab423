package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const auditPageSize = 200

// Discrepancia producto cuyo saldo de kardex no coincide con su stock.
type Discrepancia struct {
	ProductID   string
	Nombre      string
	StockKg     decimal.Decimal
	SaldoKardex decimal.Decimal
	Diferencia  decimal.Decimal // StockKg - SaldoKardex
}

// Auditor concilia el stock de cada producto contra la proyección de su kardex.
type Auditor struct {
	products    repository.ProductRepository
	projector   *KardexProjector
	concurrency int
	log         *logger.Logger
}

// NewAuditor construye el auditor. El proyector debería ir sin caché para leer la BD real.
func NewAuditor(products repository.ProductRepository, projector *KardexProjector, concurrency int, log *logger.Logger) *Auditor {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Auditor{products: products, projector: projector, concurrency: concurrency, log: log}
}

// Conciliar revisa todos los productos (incluidos los eliminados) y devuelve las discrepancias
// ordenadas por nombre. Una lista vacía indica libro consistente.
func (a *Auditor) Conciliar(ctx context.Context) ([]Discrepancia, error) {
	products, err := a.allProducts(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		diff []Discrepancia
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, p := range products {
		g.Go(func() error {
			k, err := a.projector.Proyectar(gctx, p.ID, KardexFiltro{})
			if err != nil {
				return err
			}
			saldo := k.SaldoFinal()
			if saldo.Equal(k.Producto.StockKg) {
				return nil
			}
			mu.Lock()
			diff = append(diff, Discrepancia{
				ProductID:   p.ID,
				Nombre:      p.Name,
				StockKg:     k.Producto.StockKg,
				SaldoKardex: saldo,
				Diferencia:  k.Producto.StockKg.Sub(saldo),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(diff, func(i, j int) bool { return diff[i].Nombre < diff[j].Nombre })
	a.log.Info().Int("productos", len(products)).Int("discrepancias", len(diff)).Msg("conciliación de kardex")
	return diff, nil
}

func (a *Auditor) allProducts(ctx context.Context) ([]*entity.Product, error) {
	var all []*entity.Product
	for _, deleted := range []bool{false, true} {
		for offset := 0; ; offset += auditPageSize {
			page, err := a.products.List(ctx, repository.ProductFilter{Deleted: deleted, Limit: auditPageSize, Offset: offset})
			if err != nil {
				return nil, err
			}
			all = append(all, page...)
			if len(page) < auditPageSize {
				break
			}
		}
	}
	return all, nil
}
