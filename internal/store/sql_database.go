package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/migrations"
)

const (
	maxRetryAttempts = 3
	retryBaseDelay   = 20 * time.Millisecond
)

// DB wraps the SQLite connection pool of the key-value store together with
// the driver error classifier.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// withRetry runs op until it succeeds, fails with a non-retryable error, or
// the attempts run out. Busy and locked databases are retried with a linear
// backoff.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if db.errorClassificator.Classify(err) != Retryable || attempt == maxRetryAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-time.After(time.Duration(attempt) * retryBaseDelay):
		}
	}
	return err
}

// wrap attaches the operation sentinel to err, and [ErrStorageUnavailable]
// when the driver reports an environmental failure.
func (db *DB) wrap(sentinel, err error) error {
	if db.errorClassificator.Classify(err) != NonRetryable {
		return fmt.Errorf("%w: %w: %w", ErrStorageUnavailable, sentinel, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
