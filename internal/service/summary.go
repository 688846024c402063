package service

import (
	"context"
	"sync"

	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SummaryService looks up several platforms for one caller at once.
type SummaryService struct {
	stats  *StatsService
	logger zerolog.Logger
}

func NewSummaryService(stats *StatsService, logger zerolog.Logger) *SummaryService {
	return &SummaryService{stats: stats, logger: logger}
}

// GetSummary takes raw platform names (aliases allowed) mapped to usernames.
// Every entry is validated before any lookup starts, so a bad entry fails the
// whole call without touching upstreams.
func (s *SummaryService) GetSummary(ctx context.Context, usernames map[string]string) (map[domain.Platform]*domain.StatsRecord, error) {
	if len(usernames) == 0 {
		return nil, domain.BadRequest("at least one platform is required, use: leetcode, codechef, hackerrank, gfg")
	}

	requests := make(map[domain.Platform]domain.StatsRequest, len(usernames))
	for name, username := range usernames {
		req := domain.StatsRequest{Platform: name, Username: username}
		if err := s.stats.validate.Struct(req); err != nil {
			return nil, requestError(err)
		}
		platform, err := domain.ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		if _, dup := requests[platform]; dup {
			return nil, domain.BadRequest("platform %q given more than once", platform)
		}
		requests[platform] = req
	}

	var (
		mu      sync.Mutex
		results = make(map[domain.Platform]*domain.StatsRecord, len(requests))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SummaryConcurrency)
	for platform, req := range requests {
		g.Go(func() error {
			record, err := s.stats.GetStats(gctx, req)
			if err != nil {
				return err
			}
			mu.Lock()
			results[platform] = record
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("platforms", len(results)).Msg("summary assembled")
	return results, nil
}
