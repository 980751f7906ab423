package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/internal/domain/repository"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/memory"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const usuario = "u-almacenista"

// testClock avanza step en cada lectura; step = 0 congela la hora.
type testClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

// spyCache caché de kardex en memoria que registra invalidaciones.
type spyCache struct {
	mu          sync.Mutex
	data        map[string][]entity.KardexMovimiento
	gens        map[string]int64
	invalidated []string
	gets        int
}

func newSpyCache() *spyCache {
	return &spyCache{data: map[string][]entity.KardexMovimiento{}, gens: map[string]int64{}}
}

func (c *spyCache) Generation(_ context.Context, id string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *spyCache) Get(_ context.Context, id string) ([]entity.KardexMovimiento, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	movs, ok := c.data[id]
	return append([]entity.KardexMovimiento(nil), movs...), ok, nil
}

func (c *spyCache) Set(_ context.Context, id string, gen int64, movs []entity.KardexMovimiento) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[id] != gen {
		return false, nil
	}
	c.data[id] = append([]entity.KardexMovimiento(nil), movs...)
	return true, nil
}

func (c *spyCache) Invalidate(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.gens[id]++
		delete(c.data, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	repos     inventory.Repos
	clock     *testClock
	cache     *spyCache
	ledger    *inventory.Ledger
	projector *inventory.KardexProjector
	general   *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{t: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), step: time.Minute}
	cache := newSpyCache()
	repos := store.Repos()
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: store,
		repos: repos,
		clock: clock,
		cache: cache,
		ledger: inventory.NewLedger(store, repos, cache, logger.Nop(), inventory.LedgerConfig{
			MaxRetries: inventory.DefaultMaxRetries,
			Clock:      clock.Now,
		}),
		projector: inventory.NewKardexProjector(repos.Products, store.Kardex(), cache, logger.Nop()),
		general:   &entity.Category{ID: "cat-general", Name: "Alimento", Role: entity.RolGeneral},
	}
	require.NoError(t, repos.Categories.Create(f.ctx, f.general))
	return f
}

func kg(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// product crea un producto y carga su stock inicial con una entrada, para que el kardex cuadre.
func (f *fixture) product(name, stock string) *entity.Product {
	f.t.Helper()
	p := &entity.Product{
		ID:         "p-" + name,
		Name:       name,
		CategoryID: f.general.ID,
		StockKg:    decimal.Zero,
		Active:     true,
	}
	require.NoError(f.t, f.repos.Products.Create(f.ctx, p))
	if s := kg(stock); s.IsPositive() {
		_, err := f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{
			ProductID: p.ID,
			Origen:    entity.OrigenInicial,
			Cantidad:  entity.EnKg(s),
			UsuarioID: usuario,
		})
		require.NoError(f.t, err)
	}
	return p
}

// tercero registra una contraparte en su catálogo y devuelve su id.
func (f *fixture) tercero(tipo entity.TipoTercero, nombre string) string {
	f.t.Helper()
	t := &entity.Tercero{ID: "t-" + nombre, Tipo: tipo, Nombre: nombre}
	require.NoError(f.t, f.repos.Terceros.Create(f.ctx, t))
	return t.ID
}

func (f *fixture) stock(id string) decimal.Decimal {
	f.t.Helper()
	p, err := f.repos.Products.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return p.StockKg
}

func (f *fixture) salida(tipo entity.TipoMovimiento, lineas ...inventory.LineaSalida) (*entity.Movimiento, error) {
	return f.ledger.RegistrarSalida(f.ctx, inventory.SalidaInput{Tipo: tipo, UsuarioID: usuario, Lineas: lineas})
}

func linea(productID, kgs string) inventory.LineaSalida {
	return inventory.LineaSalida{ProductID: productID, Cantidad: entity.EnKg(kg(kgs))}
}

// hookedKardex ejecuta after una vez, justo después de leer el libro.
type hookedKardex struct {
	repository.KardexRepository
	after func()
}

func (h *hookedKardex) ListByProduct(ctx context.Context, productID string) ([]entity.KardexMovimiento, error) {
	movs, err := h.KardexRepository.ListByProduct(ctx, productID)
	if h.after != nil {
		after := h.after
		h.after = nil
		after()
	}
	return movs, err
}
