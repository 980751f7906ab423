package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/domain/entity"
	"github.com/jhoicas/almacen-fh/pkg/config"
	"github.com/redis/go-redis/v9"
)

const (
	kardexKeyPrefix  = "kardex:"
	genKeyPrefix     = "kardex:gen:"
	defaultKardexTTL = 5 * time.Minute
)

var _ inventory.KardexCache = (*KardexCache)(nil)

// KardexCache guarda en Redis los eventos crudos del kardex de cada producto.
// Los saldos se recalculan siempre al proyectar.
type KardexCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKardexCache conecta a REDIS_URL y verifica con PING.
func NewKardexCache(ctx context.Context, cfg config.RedisConfig) (*KardexCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewKardexCacheWithClient(client, cfg.KardexTTL), nil
}

// NewKardexCacheWithClient usa un cliente ya construido. ttl <= 0 usa el default.
func NewKardexCacheWithClient(client *redis.Client, ttl time.Duration) *KardexCache {
	if ttl <= 0 {
		ttl = defaultKardexTTL
	}
	return &KardexCache{client: client, ttl: ttl}
}

// Get devuelve los eventos cacheados; ok=false si no hay entrada.
func (c *KardexCache) Get(ctx context.Context, productID string) ([]entity.KardexMovimiento, bool, error) {
	payload, err := c.client.Get(ctx, kardexKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	var movs []entity.KardexMovimiento
	if err := json.Unmarshal(payload, &movs); err != nil {
		return nil, false, fmt.Errorf("decode kardex cache: %w", err)
	}
	return movs, true, nil
}

// Generation devuelve la generación del producto; 0 si nunca se invalidó.
func (c *KardexCache) Generation(ctx context.Context, productID string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(productID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

// Set guarda los eventos con el TTL configurado si la generación sigue siendo gen.
// Devuelve false sin error cuando una invalidación ganó la carrera.
func (c *KardexCache) Set(ctx context.Context, productID string, gen int64, movs []entity.KardexMovimiento) (bool, error) {
	if movs == nil {
		movs = []entity.KardexMovimiento{}
	}
	payload, err := json.Marshal(movs)
	if err != nil {
		return false, fmt.Errorf("encode kardex cache: %w", err)
	}

	gk := genKey(productID)
	stale := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			stale = true
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, kardexKey(productID), payload, c.ttl)
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis set failed: %w", err)
	}
	return !stale, nil
}

// Invalidate avanza la generación y borra las entradas de los productos indicados.
func (c *KardexCache) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range productIDs {
			pipe.Incr(ctx, genKey(id))
			pipe.Del(ctx, kardexKey(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate failed: %w", err)
	}
	return nil
}

// Close libera el cliente.
func (c *KardexCache) Close() error {
	return c.client.Close()
}

func kardexKey(productID string) string {
	return kardexKeyPrefix + productID
}

func genKey(productID string) string {
	return genKeyPrefix + productID
}
