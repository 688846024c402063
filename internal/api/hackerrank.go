package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
)

type HackerRankFetcher struct {
	client   *Client
	endpoint string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewHackerRankFetcher(client *Client, endpoint string, timeout time.Duration, logger zerolog.Logger) *HackerRankFetcher {
	return &HackerRankFetcher{client: client, endpoint: endpoint, timeout: timeout, logger: logger}
}

func (f *HackerRankFetcher) Platform() domain.Platform { return domain.PlatformHackerRank }

func (f *HackerRankFetcher) Fetch(ctx context.Context, username string) *domain.StatsRecord {
	return guarded(ctx, f.Platform(), username, f.timeout, zerolog.DebugLevel, f.logger,
		func(ctx context.Context) (*domain.StatsRecord, error) {
			return f.fetch(ctx, username)
		})
}

func (f *HackerRankFetcher) fetch(ctx context.Context, username string) (*domain.StatsRecord, error) {
	resp, err := getJSON[hackerRankProfile](ctx, f.client, profileURL(f.endpoint, username))
	if err != nil {
		return nil, err
	}

	stats := &domain.HackerRankStats{
		Badges:         int(resp.Badges),
		ProblemsSolved: int(resp.Solved),
	}

	// an unknown user also comes back with both counts at zero
	if stats.Badges == 0 && stats.ProblemsSolved == 0 {
		return nil, fmt.Errorf("%w: no badges or solved problems", domain.ErrParseMiss)
	}

	return &domain.StatsRecord{
		Platform:   domain.PlatformHackerRank,
		Username:   username,
		Source:     domain.SourceScrape,
		FetchedAt:  time.Now().UTC(),
		HackerRank: stats,
	}, nil
}

type hackerRankProfile struct {
	Badges keyCount `json:"badges"`
	Solved flexInt  `json:"solved"`
}

// keyCount decodes to the number of keys of an object or elements of an array.
type keyCount int

func (k *keyCount) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err == nil {
		*k = keyCount(len(obj))
		return nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err == nil {
		*k = keyCount(len(arr))
		return nil
	}
	*k = 0
	return nil
}
