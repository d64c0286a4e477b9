package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
)

// NewConnectSQLite opens the key-value database at dsn, creating the file
// and its parent directory when missing, and pings it.
func NewConnectSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(dsn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("%w: error creating database file: %w", ErrStorageUnavailable, err)
	}

	conn, err := sql.Open("sqlite3", dsn+"?_busy_timeout=2000&_journal_mode=WAL")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("%w: error opening connection to DB: %w", ErrStorageUnavailable, err)
	}

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", dsn).Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		errorClassificator: NewSQLiteErrorClassifier(),
		logger:             log,
	}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if err = os.MkdirAll(filepath.Dir(dbFile), dirPerm); err != nil {
			return fmt.Errorf("error creating DB dir: %w", err)
		}
		// if not found - create
		f, err := os.OpenFile(dbFile, os.O_CREATE|os.O_RDWR, filePerm)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
