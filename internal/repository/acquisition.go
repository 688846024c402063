package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"codestats-proxy/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// AcquisitionRepository keeps a log of every record served on a cache miss.
// created_at is stored as unix nanoseconds so ordering is numeric.
type AcquisitionRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewAcquisitionRepository(sqlDB *sql.DB, logger zerolog.Logger) *AcquisitionRepository {
	return &AcquisitionRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *AcquisitionRepository) Record(ctx context.Context, acq domain.Acquisition) error {
	id := acq.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	createdAt := acq.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO acquisitions (id, platform, username, source, duration_ms, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, string(acq.Platform), acq.Username, string(acq.Source), acq.DurationMs, string(acq.Payload), createdAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert acquisition: %w", err)
	}

	r.logger.Debug().
		Str("id", id).
		Str("platform", string(acq.Platform)).
		Str("username", acq.Username).
		Str("source", string(acq.Source)).
		Msg("acquisition recorded")
	return nil
}

// ListRecent returns up to limit acquisitions for one platform/username pair,
// newest first.
func (r *AcquisitionRepository) ListRecent(ctx context.Context, platform domain.Platform, username string, limit int) ([]domain.Acquisition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, platform, username, source, duration_ms, payload, created_at
		 FROM acquisitions
		 WHERE platform = ? AND username = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		string(platform), username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query acquisitions: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Acquisition, 0, limit)
	for rows.Next() {
		var (
			acq       domain.Acquisition
			plat      string
			source    string
			payload   string
			createdAt int64
		)
		if err := rows.Scan(&acq.ID, &plat, &acq.Username, &source, &acq.DurationMs, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan acquisition: %w", err)
		}
		acq.Platform = domain.Platform(plat)
		acq.Source = domain.Source(source)
		acq.Payload = []byte(payload)
		acq.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, acq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate acquisitions: %w", err)
	}
	return result, nil
}
