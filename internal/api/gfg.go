package api

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
)

// solvedMatchers are tried in order against the profile page. Order matters:
// different patterns can match different numbers on the same page.
var solvedMatchers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Problems?\s*Solved[\s\S]*?([0-9]+)`),
	regexp.MustCompile(`(?i)([0-9]+)\s*(?:problems?)?\s*solved`),
	regexp.MustCompile(`"total_problems":\s*([0-9]+)`),
	regexp.MustCompile(`>([0-9]+)</\w+>\s*Problems\s*Solved`),
}

type GFGFetcher struct {
	client   *Client
	endpoint string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewGFGFetcher(client *Client, endpoint string, timeout time.Duration, logger zerolog.Logger) *GFGFetcher {
	return &GFGFetcher{client: client, endpoint: endpoint, timeout: timeout, logger: logger}
}

func (f *GFGFetcher) Platform() domain.Platform { return domain.PlatformGFG }

func (f *GFGFetcher) Fetch(ctx context.Context, username string) *domain.StatsRecord {
	return guarded(ctx, f.Platform(), username, f.timeout, zerolog.DebugLevel, f.logger,
		func(ctx context.Context) (*domain.StatsRecord, error) {
			return f.fetch(ctx, username)
		})
}

func (f *GFGFetcher) fetch(ctx context.Context, username string) (*domain.StatsRecord, error) {
	html, err := getText(ctx, f.client, profileURL(f.endpoint, username))
	if err != nil {
		return nil, err
	}

	total, ok := matchSolved(html)
	if !ok {
		return nil, fmt.Errorf("%w: no solved count on profile page", domain.ErrParseMiss)
	}

	// the page only exposes a total; the split is an estimate
	easy, medium, hard := domain.SplitByRatio(total)

	return &domain.StatsRecord{
		Platform:  domain.PlatformGFG,
		Username:  username,
		Source:    domain.SourceScrape,
		FetchedAt: time.Now().UTC(),
		GFG: &domain.GFGStats{
			Username:            username,
			TotalProblemsSolved: total,
			EasyProblems:        easy,
			MediumProblems:      medium,
			HardProblems:        hard,
		},
	}, nil
}

// matchSolved returns the first positive count captured by solvedMatchers.
func matchSolved(html string) (int, bool) {
	for _, re := range solvedMatchers {
		m := re.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
