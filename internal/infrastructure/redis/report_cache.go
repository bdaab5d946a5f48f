package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/ports"
	"github.com/jhoicas/franquicias-api/pkg/config"
	"github.com/jhoicas/franquicias-api/pkg/logger"
)

const (
	keyPrefix = "franquicias:report:"
	epochKey  = keyPrefix + "epoch"
	// genTTL solo limpia contadores de franquicias sin actividad; al expirar la generación
	// cambia, así que nunca habilita una escritura vieja.
	genTTL = 24 * time.Hour
)

// setIfGeneration escribe KEYS[3] solo si epoch:gen sigue siendo ARGV[1].
var setIfGeneration = goredis.NewScript(`
local e = redis.call('GET', KEYS[1]) or '0'
local g = redis.call('GET', KEYS[2]) or '0'
if e .. ':' .. g ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[3], ARGV[2], 'PX', ARGV[3])
return 1
`)

var _ ports.ReportCache = (*ReportCache)(nil)

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// OpenReportCache devuelve la caché en Redis si REDIS_ADDR está configurado y responde; si no,
// la caché desactivada. La función devuelta cierra el cliente.
func OpenReportCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (ports.ReportCache, func()) {
	if !cfg.Enabled() {
		return ports.NopReportCache{}, func() {}
	}
	rdb, err := NewClient(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, caché de reportes desactivada")
		return ports.NopReportCache{}, func() {}
	}
	log.Info().Str("addr", cfg.Addr).Dur("ttl", cfg.TTL).Msg("caché de reportes en Redis")
	return NewReportCache(rdb, cfg.TTL), func() { _ = rdb.Close() }
}

// ReportCache caché de reportes por franquicia serializada en JSON con TTL.
type ReportCache struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// NewReportCache construye la caché sobre un cliente ya conectado.
func NewReportCache(rdb goredis.UniversalClient, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportCache{rdb: rdb, ttl: ttl}
}

func topKey(franchiseID string) string   { return keyPrefix + franchiseID + ":top" }
func statsKey(franchiseID string) string { return keyPrefix + franchiseID + ":stats" }
func genKey(franchiseID string) string   { return keyPrefix + franchiseID + ":gen" }

// Generation devuelve "epoch:gen"; una clave ausente cuenta como 0.
func (c *ReportCache) Generation(ctx context.Context, franchiseID string) (string, error) {
	vals, err := c.rdb.MGet(ctx, epochKey, genKey(franchiseID)).Result()
	if err != nil {
		return "", fmt.Errorf("redis mget: %w", err)
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = "0"
		if s, ok := v.(string); ok {
			parts[i] = s
		}
	}
	return strings.Join(parts, ":"), nil
}

func (c *ReportCache) GetTopStock(ctx context.Context, franchiseID string) ([]dto.TopStockProductResponse, bool, error) {
	var out []dto.TopStockProductResponse
	ok, err := c.get(ctx, topKey(franchiseID), &out)
	return out, ok, err
}

func (c *ReportCache) SetTopStock(ctx context.Context, franchiseID, gen string, report []dto.TopStockProductResponse) (bool, error) {
	return c.set(ctx, franchiseID, gen, topKey(franchiseID), report)
}

func (c *ReportCache) GetStats(ctx context.Context, franchiseID string) (*dto.FranchiseStatsResponse, bool, error) {
	var out dto.FranchiseStatsResponse
	ok, err := c.get(ctx, statsKey(franchiseID), &out)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &out, true, nil
}

func (c *ReportCache) SetStats(ctx context.Context, franchiseID, gen string, stats *dto.FranchiseStatsResponse) (bool, error) {
	return c.set(ctx, franchiseID, gen, statsKey(franchiseID), stats)
}

// Invalidate avanza la generación antes de borrar, para que ningún cálculo en curso repueble la clave.
func (c *ReportCache) Invalidate(ctx context.Context, franchiseID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, genKey(franchiseID))
		pipe.Expire(ctx, genKey(franchiseID), genTTL)
		pipe.Del(ctx, topKey(franchiseID), statsKey(franchiseID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s: %w", franchiseID, err)
	}
	return nil
}

// InvalidateAll avanza la época global y borra las demás claves de reportes recorriendo el
// keyspace con SCAN. La época no se borra nunca.
func (c *ReportCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		if iter.Val() == epochKey {
			continue
		}
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := c.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

func (c *ReportCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decodificar %s: %w", key, err)
	}
	return true, nil
}

func (c *ReportCache) set(ctx context.Context, franchiseID, gen, key string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("codificar %s: %w", key, err)
	}
	keys := []string{epochKey, genKey(franchiseID), key}
	stored, err := setIfGeneration.Run(ctx, c.rdb, keys, gen, string(raw), c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis set %s: %w", key, err)
	}
	return stored == 1, nil
}
