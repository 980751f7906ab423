package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
)

// ListFilter filtros de consulta de movimientos. Anio/Mes (opcionales) acotan por fecha.
type ListFilter struct {
	ProductID string
	Anio      int
	Mes       int // 1-12; requiere Anio
	Limit     int
	Offset    int
}

// ListEntradas lista entradas, más recientes primero.
func (l *Ledger) ListEntradas(ctx context.Context, f ListFilter) ([]*entity.Entrada, error) {
	mf, err := f.toMovementFilter()
	if err != nil {
		return nil, err
	}
	return l.repos.Entradas.List(ctx, mf)
}

// ListSalidas lista movimientos de salida con sus detalles, más recientes primero.
func (l *Ledger) ListSalidas(ctx context.Context, f ListFilter) ([]*entity.Movimiento, error) {
	mf, err := f.toMovementFilter()
	if err != nil {
		return nil, err
	}
	return l.repos.Movimientos.List(ctx, mf)
}

// GetSalida obtiene un movimiento por ID.
func (l *Ledger) GetSalida(ctx context.Context, id string) (*entity.Movimiento, error) {
	m, err := l.repos.Movimientos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMermas lista mermas, filtrables por año y mes.
func (l *Ledger) ListMermas(ctx context.Context, f ListFilter) ([]*entity.Merma, error) {
	mf, err := f.toMovementFilter()
	if err != nil {
		return nil, err
	}
	return l.repos.Mermas.List(ctx, mf)
}

func (f ListFilter) toMovementFilter() (repository.MovementFilter, error) {
	mf := repository.MovementFilter{
		ProductID: f.ProductID,
		Limit:     f.Limit,
		Offset:    f.Offset,
	}
	if mf.Limit <= 0 {
		mf.Limit = 50
	}
	if mf.Offset < 0 {
		mf.Offset = 0
	}
	if f.Mes != 0 && f.Anio == 0 {
		return mf, domain.ErrInvalidInput
	}
	if f.Mes < 0 || f.Mes > 12 || f.Anio < 0 {
		return mf, domain.ErrInvalidInput
	}
	if f.Anio == 0 {
		return mf, nil
	}
	var desde, hasta time.Time
	if f.Mes == 0 {
		desde = time.Date(f.Anio, time.January, 1, 0, 0, 0, 0, time.UTC)
		hasta = desde.AddDate(1, 0, 0)
	} else {
		desde = time.Date(f.Anio, time.Month(f.Mes), 1, 0, 0, 0, 0, time.UTC)
		hasta = desde.AddDate(0, 1, 0)
	}
	mf.Desde = &desde
	mf.Hasta = &hasta
	return mf, nil
}
