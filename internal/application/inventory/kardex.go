package inventory

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
)

// KardexCache guarda los eventos crudos de un producto (sin saldos).
// Invalidate avanza la generación del producto; Set solo escribe si la generación
// sigue siendo la leída antes de consultar el libro, así una lectura lenta no puede
// dejar en caché un historial anterior a un commit.
type KardexCache interface {
	KardexInvalidator
	Get(ctx context.Context, productID string) ([]entity.KardexMovimiento, bool, error)
	Generation(ctx context.Context, productID string) (int64, error)
	Set(ctx context.Context, productID string, gen int64, movs []entity.KardexMovimiento) (bool, error)
}

// KardexFiltro acota el rango de fechas del reporte. Hasta es exclusivo.
type KardexFiltro struct {
	Desde *time.Time
	Hasta *time.Time
}

// Kardex proyección de solo lectura del libro de un producto.
type Kardex struct {
	Producto     *entity.Product
	SaldoInicial decimal.Decimal // saldo acumulado antes de Desde
	movs         []entity.KardexMovimiento
}

// Movimientos recorre las líneas en orden cronológico calculando el saldo acumulado.
// La secuencia es finita y puede recorrerse varias veces.
func (k *Kardex) Movimientos() iter.Seq[entity.KardexLinea] {
	return func(yield func(entity.KardexLinea) bool) {
		saldo := k.SaldoInicial
		for _, m := range k.movs {
			saldo = saldo.Add(m.Kg)
			if !yield(entity.KardexLinea{KardexMovimiento: m, Saldo: saldo}) {
				return
			}
		}
	}
}

// Lineas materializa Movimientos.
func (k *Kardex) Lineas() []entity.KardexLinea {
	return slices.Collect(k.Movimientos())
}

// Len número de líneas del reporte.
func (k *Kardex) Len() int { return len(k.movs) }

// SaldoFinal saldo tras la última línea. Sin filtro debe coincidir con el stock del producto.
func (k *Kardex) SaldoFinal() decimal.Decimal {
	saldo := k.SaldoInicial
	for _, m := range k.movs {
		saldo = saldo.Add(m.Kg)
	}
	return saldo
}

// KardexProjector reconstruye el kardex a partir de entradas, detalles de salida y mermas.
type KardexProjector struct {
	products repository.ProductRepository
	repo     repository.KardexRepository
	cache    KardexCache
	log      *logger.Logger
}

// NewKardexProjector construye el proyector. cache puede ser nil.
func NewKardexProjector(products repository.ProductRepository, repo repository.KardexRepository, cache KardexCache, log *logger.Logger) *KardexProjector {
	return &KardexProjector{products: products, repo: repo, cache: cache, log: log}
}

// Proyectar devuelve el kardex del producto ordenado por fecha (desempate por seq).
func (p *KardexProjector) Proyectar(ctx context.Context, productID string, f KardexFiltro) (*Kardex, error) {
	if f.Desde != nil && f.Hasta != nil && !f.Desde.Before(*f.Hasta) {
		return nil, domain.ErrInvalidInput
	}
	product, err := p.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := p.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	sortKardex(movs)

	k := &Kardex{Producto: product, SaldoInicial: decimal.Zero}
	for _, m := range movs {
		if f.Desde != nil && m.FechaHora.Before(*f.Desde) {
			k.SaldoInicial = k.SaldoInicial.Add(m.Kg)
			continue
		}
		if f.Hasta != nil && !m.FechaHora.Before(*f.Hasta) {
			break
		}
		k.movs = append(k.movs, m)
	}
	return k, nil
}

func (p *KardexProjector) load(ctx context.Context, productID string) ([]entity.KardexMovimiento, error) {
	if p.cache != nil {
		movs, ok, err := p.cache.Get(ctx, productID)
		if err != nil {
			p.log.Warn().Err(err).Str("producto", productID).Msg("leer kardex de caché")
		} else if ok {
			return movs, nil
		}
	}
	cacheable := p.cache != nil
	var gen int64
	if cacheable {
		var err error
		if gen, err = p.cache.Generation(ctx, productID); err != nil {
			p.log.Warn().Err(err).Str("producto", productID).Msg("leer generación del kardex")
			cacheable = false
		}
	}
	movs, err := p.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		stored, err := p.cache.Set(ctx, productID, gen, movs)
		switch {
		case err != nil:
			p.log.Warn().Err(err).Str("producto", productID).Msg("guardar kardex en caché")
		case !stored:
			p.log.Debug().Str("producto", productID).Int64("generacion", gen).Msg("kardex invalidado durante la lectura; no se cachea")
		}
	}
	return movs, nil
}

// sortKardex ordena por fecha y, a igual fecha, por orden de inserción (seq).
func sortKardex(movs []entity.KardexMovimiento) {
	slices.SortStableFunc(movs, func(a, b entity.KardexMovimiento) int {
		if c := a.FechaHora.Compare(b.FechaHora); c != 0 {
			return c
		}
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}
