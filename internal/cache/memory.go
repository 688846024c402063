package cache

import (
	"context"
	"time"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process LRU whose entries expire after a fixed TTL.
type Memory struct {
	lru *expirable.LRU[string, *domain.StatsRecord]
	ttl time.Duration
}

func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{
		lru: expirable.NewLRU[string, *domain.StatsRecord](size, nil, ttl),
		ttl: ttl,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*domain.StatsRecord, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(_ context.Context, key string, record *domain.StatsRecord) {
	m.lru.Add(key, record)
}

// Keys lists unexpired keys, oldest first.
func (m *Memory) Keys(_ context.Context) []string {
	return m.lru.Keys()
}

func (m *Memory) TTL() time.Duration { return m.ttl }

func (m *Memory) Backend() string { return config.CacheBackendMemory }
