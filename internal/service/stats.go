package service

import (
	"context"
	"encoding/json"
	"time"

	"codestats-proxy/internal/api"
	"codestats-proxy/internal/cache"
	"codestats-proxy/internal/config"
	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"
	"codestats-proxy/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SyntheticGenerator interface {
	Generate(platform domain.Platform, username string) *domain.StatsRecord
}

type AcquisitionStore interface {
	Record(ctx context.Context, acq domain.Acquisition) error
	ListRecent(ctx context.Context, platform domain.Platform, username string, limit int) ([]domain.Acquisition, error)
}

// StatsService answers one platform/username lookup: cache first, then the
// platform's fetcher, then synthetic data. Only invalid input is an error.
type StatsService struct {
	cfg       *config.Config
	fetchers  map[domain.Platform]api.Fetcher
	cache     cache.Cache
	synthetic SyntheticGenerator
	store     AcquisitionStore
	validate  *validator.Validate
	logger    zerolog.Logger

	history errgroup.Group
}

func NewStatsService(
	cfg *config.Config,
	fetchers []api.Fetcher,
	c cache.Cache,
	synthetic SyntheticGenerator,
	store AcquisitionStore,
	logger zerolog.Logger,
) *StatsService {
	byPlatform := make(map[domain.Platform]api.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}

	s := &StatsService{
		cfg:       cfg,
		fetchers:  byPlatform,
		cache:     c,
		synthetic: synthetic,
		store:     store,
		validate:  newValidator(),
		logger:    logger,
	}
	s.history.SetLimit(constants.HistoryMaxPendingWrites)
	return s
}

func (s *StatsService) GetStats(ctx context.Context, req domain.StatsRequest) (*domain.StatsRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, requestError(err)
	}
	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}
	username := req.Username
	key := cache.Key(platform, username)

	if record, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues(metrics.ResultHit).Inc()
		s.requestLogger(ctx).Debug().Str("key", key).Msg("cache hit")
		return record, nil
	}
	metrics.CacheLookups.WithLabelValues(metrics.ResultMiss).Inc()

	// The fetch is bounded by the fetcher's own timeout guard only; a caller
	// hanging up does not cut it short or turn it into synthetic data.
	detached := context.WithoutCancel(ctx)

	start := time.Now()
	record := s.acquire(detached, platform, username)
	elapsed := time.Since(start)

	metrics.Acquisitions.WithLabelValues(string(platform), string(record.Source)).Inc()
	s.requestLogger(ctx).Info().
		Str("platform", string(platform)).
		Str("username", username).
		Str("source", string(record.Source)).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("stats acquired")

	s.cache.Set(detached, key, record)
	s.recordHistory(record, elapsed)
	return record, nil
}

func (s *StatsService) acquire(ctx context.Context, platform domain.Platform, username string) *domain.StatsRecord {
	if !s.cfg.IsEnabled(platform) {
		s.requestLogger(ctx).Debug().Str("platform", string(platform)).Msg("platform disabled, using synthetic data")
		return s.synthetic.Generate(platform, username)
	}

	if f, ok := s.fetchers[platform]; ok {
		if record := f.Fetch(ctx, username); record != nil {
			return record
		}
	}
	return s.synthetic.Generate(platform, username)
}

func (s *StatsService) recordHistory(record *domain.StatsRecord, elapsed time.Duration) {
	if s.store == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode acquisition")
		return
	}

	acq := domain.Acquisition{
		Platform:   record.Platform,
		Username:   record.Username,
		Source:     record.Source,
		DurationMs: elapsed.Milliseconds(),
		Payload:    payload,
		CreatedAt:  record.FetchedAt,
	}

	started := s.history.TryGo(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
		defer cancel()

		if err := s.store.Record(ctx, acq); err != nil {
			s.logger.Warn().
				Err(err).
				Str("platform", string(acq.Platform)).
				Str("username", acq.Username).
				Msg("failed to record acquisition")
		}
		return nil
	})
	if !started {
		s.logger.Warn().
			Str("platform", string(acq.Platform)).
			Str("username", acq.Username).
			Msg("history writes saturated, dropping acquisition")
	}
}

// Wait blocks until every pending history write has finished.
func (s *StatsService) Wait() {
	_ = s.history.Wait()
}

// requestLogger prefers the request-scoped logger carrying request_id.
func (s *StatsService) requestLogger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
