package service

import (
	"context"
	"fmt"

	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type HistoryService struct {
	store    AcquisitionStore
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewHistoryService(store AcquisitionStore, logger zerolog.Logger) *HistoryService {
	return &HistoryService{store: store, validate: newValidator(), logger: logger}
}

// ListRecent returns the latest acquisitions for one lookup, newest first.
// limit falls back to the default when not positive and is capped.
func (h *HistoryService) ListRecent(ctx context.Context, req domain.StatsRequest, limit int) ([]domain.Acquisition, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, requestError(err)
	}
	platform, err := domain.ParsePlatform(req.Platform)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = constants.HistoryDefaultLimit
	case limit > constants.HistoryMaxLimit:
		limit = constants.HistoryMaxLimit
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	entries, err := h.store.ListRecent(ctx, platform, req.Username, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("platform", string(platform)).Str("username", req.Username).Msg("failed to list acquisitions")
		return nil, fmt.Errorf("failed to list acquisitions: %w", err)
	}
	return entries, nil
}
