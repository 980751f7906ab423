package inventory_test

import (
	"testing"
	"time"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saldos(k *inventory.Kardex) []string {
	var out []string
	for ln := range k.Movimientos() {
		out = append(out, ln.Saldo.StringFixed(2))
	}
	return out
}

func TestKardex_RunningBalanceMatchesStock(t *testing.T) {
	f := newFixture(t)
	corn := f.product("Corn", "500")
	_, err := f.salida(entity.MovimientoVenta, linea(corn.ID, "600"))
	require.Error(t, err)
	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: corn.ID, Cantidad: entity.EnKg(kg("200")), UsuarioID: usuario})
	require.NoError(t, err)
	_, err = f.salida(entity.MovimientoVenta, linea(corn.ID, "600"))
	require.NoError(t, err)
	_, err = f.ledger.RegistrarMerma(f.ctx, inventory.MermaInput{ProductID: corn.ID, Motivo: entity.MermaDerrame, Cantidad: entity.EnKg(kg("0.5")), UsuarioID: usuario})
	require.NoError(t, err)

	k, err := f.projector.Proyectar(f.ctx, corn.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.Equal(t, []string{"500.00", "700.00", "100.00", "99.50"}, saldos(k))
	assert.True(t, k.SaldoFinal().Equal(f.stock(corn.ID)))

	lineas := k.Lineas()
	require.Len(t, lineas, 4)
	assert.Equal(t, entity.KardexEntrada, lineas[0].Tipo)
	assert.Equal(t, string(entity.OrigenInicial), lineas[0].Detalle)
	assert.Equal(t, entity.KardexSalida, lineas[2].Tipo)
	assert.Equal(t, "VEN-00001", lineas[2].Referencia)
	assert.True(t, lineas[2].Kg.Equal(kg("-600")))
	assert.Equal(t, entity.KardexMerma, lineas[3].Tipo)
}

func TestKardex_IteratorIsRestartableAndStoppable(t *testing.T) {
	f := newFixture(t)
	p := f.product("Maiz", "10")
	for i := 0; i < 3; i++ {
		_, err := f.salida(entity.MovimientoPedido, linea(p.ID, "1"))
		require.NoError(t, err)
	}
	k, err := f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)

	assert.Equal(t, saldos(k), saldos(k))
	assert.Equal(t, 4, k.Len())

	n := 0
	for range k.Movimientos() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestKardex_SameTimestampOrderedBySeq(t *testing.T) {
	f := newFixture(t)
	f.clock.step = 0
	p := f.product("Soya", "100")
	_, err := f.salida(entity.MovimientoVenta, linea(p.ID, "30"))
	require.NoError(t, err)
	_, err = f.ledger.RegistrarEntrada(f.ctx, inventory.EntradaInput{ProductID: p.ID, Cantidad: entity.EnKg(kg("5")), UsuarioID: usuario})
	require.NoError(t, err)
	_, err = f.salida(entity.MovimientoVenta, linea(p.ID, "75"))
	require.NoError(t, err)

	k, err := f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.Equal(t, []string{"100.00", "70.00", "75.00", "0.00"}, saldos(k), "el orden de inserción desempata")
	for ln := range k.Movimientos() {
		assert.False(t, ln.Saldo.IsNegative())
	}
}

func TestKardex_DateRangeFoldsOpeningBalance(t *testing.T) {
	f := newFixture(t)
	p := f.product("Sal", "100") // 08:01
	for i := 0; i < 4; i++ {      // 08:02 .. 08:05
		_, err := f.salida(entity.MovimientoTraslado, linea(p.ID, "10"))
		require.NoError(t, err)
	}
	desde := time.Date(2024, 5, 1, 8, 3, 0, 0, time.UTC)
	hasta := time.Date(2024, 5, 1, 8, 5, 0, 0, time.UTC)

	k, err := f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{Desde: &desde, Hasta: &hasta})
	require.NoError(t, err)
	assert.True(t, k.SaldoInicial.Equal(kg("90")))
	assert.Equal(t, []string{"80.00", "70.00"}, saldos(k))

	_, err = f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{Desde: &hasta, Hasta: &desde})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKardex_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.projector.Proyectar(f.ctx, "nada", inventory.KardexFiltro{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardex_CacheAside(t *testing.T) {
	f := newFixture(t)
	p := f.product("Melaza", "40")

	_, err := f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.Contains(t, f.cache.data, p.ID, "un fallo de caché llena la entrada")

	k, err := f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.cache.gets)
	assert.Equal(t, 1, k.Len())

	_, err = f.salida(entity.MovimientoVenta, linea(p.ID, "15"))
	require.NoError(t, err)
	assert.NotContains(t, f.cache.data, p.ID)

	k, err = f.projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.True(t, k.SaldoFinal().Equal(kg("25")), "tras invalidar se relee el libro")
}

func TestKardex_CommitDuringCacheFillIsNotCached(t *testing.T) {
	f := newFixture(t)
	p := f.product("Sorgo", "100")

	hooked := &hookedKardex{KardexRepository: f.store.Kardex()}
	projector := inventory.NewKardexProjector(f.repos.Products, hooked, f.cache, logger.Nop())
	hooked.after = func() {
		_, err := f.salida(entity.MovimientoVenta, linea(p.ID, "30"))
		require.NoError(t, err)
	}

	_, err := projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.NotContains(t, f.cache.data, p.ID, "la lectura previa al commit no queda en caché")

	k, err := projector.Proyectar(f.ctx, p.ID, inventory.KardexFiltro{})
	require.NoError(t, err)
	assert.True(t, f.stock(p.ID).Equal(kg("70")))
	assert.True(t, k.SaldoFinal().Equal(kg("70")), "saldo %s", k.SaldoFinal())
	assert.Equal(t, 2, k.Len())
	assert.Contains(t, f.cache.data, p.ID)
}
