package service

import (
	"context"
	"testing"
	"time"

	"codestats-proxy/internal/cache"
	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSummary(t *testing.T) {
	hackerrank := &MockFetcher{platform: domain.PlatformHackerRank}
	hackerrank.On("Fetch", mock.Anything, "alice").Return(liveRecord("alice")).Once()
	gfg := &MockFetcher{platform: domain.PlatformGFG}
	gfg.On("Fetch", mock.Anything, "geek").Return(nil).Once()

	stats, _ := newTestStatsService(t, allEnabled(), cache.NewMemory(10, time.Minute), hackerrank, gfg)
	svc := NewSummaryService(stats, zerolog.Nop())

	results, err := svc.GetSummary(context.Background(), map[string]string{
		"hackerrank":    "alice",
		"geeksforgeeks": "geek",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.SourceScrape, results[domain.PlatformHackerRank].Source)
	assert.Equal(t, domain.SourceSynthetic, results[domain.PlatformGFG].Source)
	hackerrank.AssertExpectations(t)
	gfg.AssertExpectations(t)
}

func TestGetSummary_BadRequest(t *testing.T) {
	tests := []struct {
		name      string
		usernames map[string]string
	}{
		{"empty", map[string]string{}},
		{"unknown platform", map[string]string{"hackerrank": "alice", "topcoder": "bob"}},
		{"empty username", map[string]string{"hackerrank": ""}},
		{"alias given twice", map[string]string{"gfg": "a", "geeksforgeeks": "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &MockFetcher{platform: domain.PlatformHackerRank}
			stats, _ := newTestStatsService(t, allEnabled(), cache.NewMemory(10, time.Minute), fetcher)
			svc := NewSummaryService(stats, zerolog.Nop())

			results, err := svc.GetSummary(context.Background(), tt.usernames)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
			assert.Nil(t, results)
			fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
		})
	}
}
