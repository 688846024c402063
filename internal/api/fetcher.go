package api

import (
	"context"
	"net/url"
	"strings"
	"time"

	"codestats-proxy/internal/config"
	"codestats-proxy/internal/domain"
	"codestats-proxy/internal/metrics"
	"codestats-proxy/internal/timeout"

	"github.com/rs/zerolog"
)

// Fetcher acquires live stats for one platform. Fetch never returns an error:
// any failure is logged at the fetcher's chosen level and reported as nil.
type Fetcher interface {
	Platform() domain.Platform
	Fetch(ctx context.Context, username string) *domain.StatsRecord
}

// NewFetchers builds one fetcher per supported platform.
func NewFetchers(cfg *config.Config, client *Client, logger zerolog.Logger) []Fetcher {
	return []Fetcher{
		NewLeetCodeFetcher(client, cfg.LeetCodeURL, cfg.APITimeout, logger),
		NewCodeChefFetcher(client, cfg.CodeChefURLs, cfg.APITimeout, logger),
		NewHackerRankFetcher(client, cfg.HackerRankURL, cfg.APITimeout, logger),
		NewGFGFetcher(client, cfg.GFGURL, cfg.ScrapeTimeout, logger),
	}
}

// guarded runs fetch under the timeout guard and converts any error into an
// absent result at the given log level.
func guarded(
	ctx context.Context,
	platform domain.Platform,
	username string,
	bound time.Duration,
	level zerolog.Level,
	logger zerolog.Logger,
	fetch func(ctx context.Context) (*domain.StatsRecord, error),
) *domain.StatsRecord {
	start := time.Now()
	record, err := timeout.Run(ctx, bound, fetch)
	metrics.UpstreamDuration.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())

	if err != nil {
		reason := domain.Reason(err)
		metrics.UpstreamFailures.WithLabelValues(string(platform), reason).Inc()
		logger.WithLevel(level).
			Err(err).
			Str("platform", string(platform)).
			Str("username", username).
			Str("reason", reason).
			Msg("fetch failed")
		return nil
	}
	return record
}

// profileURL fills a "%s" endpoint template with the escaped username.
func profileURL(template, username string) string {
	return strings.Replace(template, "%s", url.PathEscape(username), 1)
}
