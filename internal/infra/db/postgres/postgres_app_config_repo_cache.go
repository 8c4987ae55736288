package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/metrics"
	red "tree-service-leads/internal/infra/redis"
)

var _ repository.AppConfigRepository = (*appConfigRepoCacheDecorator)(nil)

const appConfigCacheKey = "app_config:" + model.AppConfigID

type appConfigRepoCacheDecorator struct {
	inner repository.AppConfigRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

// NewAppConfigRepoCacheDecorator caches the singleton row. A Redis failure
// falls through to inner.
func NewAppConfigRepoCacheDecorator(inner repository.AppConfigRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.AppConfigRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &appConfigRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func (d *appConfigRepoCacheDecorator) Get(ctx context.Context, tx repository.Tx) (*model.AppConfig, error) {
	// Reads inside a transaction must see uncommitted writes.
	if tx != nil {
		return d.inner.Get(ctx, tx)
	}
	val, err := d.cache.Get(ctx, appConfigCacheKey)
	switch {
	case err == nil:
		var c model.AppConfig
		if json.Unmarshal([]byte(val), &c) == nil {
			metrics.IncCacheRequest("app_config", "hit")
			return &c, nil
		}
		metrics.IncCacheRequest("app_config", "error")
	case errors.Is(err, red.Nil):
		metrics.IncCacheRequest("app_config", "miss")
	default:
		metrics.IncCacheRequest("app_config", "error")
		d.log.Warn().Err(err).Msg("app config cache get")
	}

	c, err := d.inner.Get(ctx, tx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(c); err == nil {
		if err := d.cache.Set(ctx, appConfigCacheKey, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Msg("app config cache set")
		}
	}
	return c, nil
}

func (d *appConfigRepoCacheDecorator) Upsert(ctx context.Context, tx repository.Tx, c *model.AppConfig) error {
	if err := d.inner.Upsert(ctx, tx, c); err != nil {
		return err
	}
	if err := d.cache.Del(ctx, appConfigCacheKey); err != nil {
		d.log.Warn().Err(err).Msg("app config cache invalidate")
	}
	return nil
}
