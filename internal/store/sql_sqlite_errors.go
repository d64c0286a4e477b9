package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrorClassificator decides how a failed database operation is handled.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// ErrorClassification is the result type returned by
// [ErrorClassificator.Classify].
type ErrorClassification int

const (
	// NonRetryable indicates a logic or data error; retrying cannot help.
	NonRetryable ErrorClassification = iota

	// Retryable indicates contention (another process holds the database)
	// that may clear on a later attempt.
	Retryable

	// Unavailable indicates the database file itself cannot be used: it is
	// missing, read-only, denied by the sandbox, or failing I/O.
	Unavailable
)

// SQLiteErrorClassifier implements [ErrorClassificator] for mattn/go-sqlite3.
type SQLiteErrorClassifier struct{}

// NewSQLiteErrorClassifier constructs a [SQLiteErrorClassifier].
func NewSQLiteErrorClassifier() *SQLiteErrorClassifier {
	return &SQLiteErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that are not sqlite3
// driver errors are [NonRetryable].
func (c *SQLiteErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return ClassifySQLiteError(sqliteErr)
	}

	return NonRetryable
}

// ClassifySQLiteError maps a primary SQLite result code to an
// [ErrorClassification].
//
// See https://www.sqlite.org/rescode.html.
func ClassifySQLiteError(sqliteErr sqlite3.Error) ErrorClassification {
	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return Retryable

	case sqlite3.ErrCantOpen,
		sqlite3.ErrPerm,
		sqlite3.ErrReadonly,
		sqlite3.ErrIoErr,
		sqlite3.ErrFull,
		sqlite3.ErrCorrupt,
		sqlite3.ErrNotADB,
		sqlite3.ErrAuth:
		return Unavailable
	}

	return NonRetryable
}
