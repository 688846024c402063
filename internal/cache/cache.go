package cache

import (
	"context"
	"fmt"
	"time"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
)

// Cache maps "platform:username" to the last record served for it. Every
// entry lives for the same TTL and is never returned after it expires.
//
// Concurrent misses for the same key are not de-duplicated: each caller may
// acquire and Set independently, and the last write wins.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.StatsRecord, bool)
	Set(ctx context.Context, key string, record *domain.StatsRecord)
	Keys(ctx context.Context) []string
	TTL() time.Duration
	Backend() string
}

func Key(platform domain.Platform, username string) string {
	return string(platform) + ":" + username
}

// New builds the backend selected by cfg.CacheBackend.
func New(cfg *config.Config, logger zerolog.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		return NewMemory(cfg.CacheSize, cfg.CacheTTL), nil
	case config.CacheBackendRedis:
		return NewRedis(RedisOptions{Addr: cfg.RedisAddr, Prefix: cfg.CacheKeyPrefix, TTL: cfg.CacheTTL}, logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
