package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *Store, stock string) *entity.Product {
	t.Helper()
	ctx := context.Background()
	repos := s.Repos()
	cat := &entity.Category{ID: "cat-1", Name: "Granos", Role: entity.RolIngrediente}
	require.NoError(t, repos.Categories.Create(ctx, cat))
	p := &entity.Product{ID: "p-1", Name: "Maíz", CategoryID: cat.ID, StockKg: decimal.RequireFromString(stock), Active: true}
	require.NoError(t, repos.Products.Create(ctx, p))
	return p
}

func TestStore_RunRollsBackOnError(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "100")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		require.NoError(t, r.Products.AdjustStock(ctx, p.ID, decimal.NewFromInt(-40)))
		require.NoError(t, r.Entradas.Create(ctx, &entity.Entrada{ID: "e-1", ProductID: p.ID, TotalKg: decimal.NewFromInt(1), FechaHora: time.Now()}))
		_, err := r.Folios.Next(ctx, "VEN")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockKg.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, entity.RolIngrediente, got.CategoryRole)

	movs, err := s.Kardex().ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)

	n, err := s.Repos().Folios.Next(ctx, "VEN")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "el folio consumido en la transacción fallida no deja hueco")
}

func TestStore_AdjustStockRejectsNegative(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "10")
	err := s.Repos().Products.AdjustStock(context.Background(), p.ID, decimal.NewFromInt(-11))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStore_FailNextConsumesInOrder(t *testing.T) {
	s := NewStore()
	s.FailNext("folios.next", domain.ErrDuplicateFolio)
	ctx := context.Background()

	_, err := s.Repos().Folios.Next(ctx, "TRA")
	assert.ErrorIs(t, err, domain.ErrDuplicateFolio)
	n, err := s.Repos().Folios.Next(ctx, "TRA")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_DuplicateFolio(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	m := &entity.Movimiento{ID: "m-1", Folio: "VEN-00001", Tipo: entity.MovimientoVenta}
	require.NoError(t, s.Repos().Movimientos.Create(ctx, m))
	err := s.Repos().Movimientos.Create(ctx, &entity.Movimiento{ID: "m-2", Folio: "VEN-00001", Tipo: entity.MovimientoVenta})
	assert.ErrorIs(t, err, domain.ErrDuplicateFolio)
}

func TestStore_RunHonorsCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(context.Context, inventory.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
