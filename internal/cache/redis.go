package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RedisOptions struct {
	Addr   string
	Prefix string
	TTL    time.Duration
}

// Redis stores records as JSON and lets the server expire them, so several
// proxy instances can share one cache. Redis failures read as misses and
// dropped writes; they never reach the caller.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedis(opts RedisOptions, logger zerolog.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: opts.Addr}),
		prefix: opts.Prefix,
		ttl:    opts.TTL,
		logger: logger,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (*domain.StatsRecord, bool) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis get failed, treating as miss")
		return nil, false
	}

	var record domain.StatsRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return &record, true
}

func (r *Redis) Set(ctx context.Context, key string, record *domain.StatsRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (r *Redis) Keys(ctx context.Context) []string {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn().Err(err).Msg("redis scan failed")
	}
	return keys
}

func (r *Redis) TTL() time.Duration { return r.ttl }

func (r *Redis) Backend() string { return config.CacheBackendRedis }

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
