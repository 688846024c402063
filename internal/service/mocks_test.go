package service

import (
	"context"

	"codestats-proxy/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
	platform domain.Platform
}

func (m *MockFetcher) Platform() domain.Platform { return m.platform }

func (m *MockFetcher) Fetch(ctx context.Context, username string) *domain.StatsRecord {
	args := m.Called(ctx, username)
	record, _ := args.Get(0).(*domain.StatsRecord)
	return record
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Record(ctx context.Context, acq domain.Acquisition) error {
	args := m.Called(ctx, acq)
	return args.Error(0)
}

func (m *MockStore) ListRecent(ctx context.Context, platform domain.Platform, username string, limit int) ([]domain.Acquisition, error) {
	args := m.Called(ctx, platform, username, limit)
	entries, _ := args.Get(0).([]domain.Acquisition)
	return entries, args.Error(1)
}
