package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*KardexCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKardexCacheWithClient(client, ttl), mr
}

func TestKardexCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	fecha := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	movs := []entity.KardexMovimiento{
		{Seq: 1, FechaHora: fecha, Tipo: entity.KardexEntrada, Detalle: "COMPRA", Referencia: "e-1", Kg: decimal.RequireFromString("1110"), UsuarioID: "u1"},
		{Seq: 2, FechaHora: fecha, Tipo: entity.KardexSalida, Detalle: "VENTA", Referencia: "VEN-00001", Kg: decimal.RequireFromString("-500.25"), UsuarioID: "u1"},
	}

	_, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := c.Set(ctx, "p-1", 0, movs)
	require.NoError(t, err)
	require.True(t, stored)
	got, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.True(t, got[1].Kg.Equal(decimal.RequireFromString("-500.25")))
	assert.Equal(t, "VEN-00001", got[1].Referencia)
	assert.True(t, got[0].FechaHora.Equal(fecha))
}

func TestKardexCache_EmptyHistoryIsAHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	_, err := c.Set(ctx, "p-vacio", 0, nil)
	require.NoError(t, err)
	got, ok, err := c.Get(ctx, "p-vacio")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestKardexCache_InvalidateAndTTL(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	_, err := c.Set(ctx, "p-1", 0, []entity.KardexMovimiento{{Seq: 1}})
	require.NoError(t, err)
	_, err = c.Set(ctx, "p-2", 0, []entity.KardexMovimiento{{Seq: 2}})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, mr.TTL("kardex:p-1"))

	require.NoError(t, c.Invalidate(ctx, "p-1"))
	_, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(31 * time.Second)
	_, ok, err = c.Get(ctx, "p-2")
	require.NoError(t, err)
	assert.False(t, ok, "expira con el TTL")

	assert.NoError(t, c.Invalidate(ctx))
}

func TestKardexCache_SetSkipsStaleGeneration(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx, "p-1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	// un commit invalida entre la lectura del libro y la escritura en caché
	require.NoError(t, c.Invalidate(ctx, "p-1"))
	stored, err := c.Set(ctx, "p-1", gen, []entity.KardexMovimiento{{Seq: 1}})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists("kardex:p-1"))

	gen, err = c.Generation(ctx, "p-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, gen)
	stored, err = c.Set(ctx, "p-1", gen, []entity.KardexMovimiento{{Seq: 1}, {Seq: 2}})
	require.NoError(t, err)
	assert.True(t, stored)
	got, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestKardexCache_CorruptPayload(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("kardex:p-1", "no-es-json"))
	_, ok, err := c.Get(context.Background(), "p-1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewKardexCache_BadURL(t *testing.T) {
	_, err := NewKardexCache(context.Background(), config.RedisConfig{URL: "://sin-esquema"})
	assert.Error(t, err)
}
