package store

import "errors"

// Sentinel errors returned by the storage backends. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when a backend is reachable but holds no value
	// for the requested snapshot or key.
	ErrNotFound = errors.New("no value stored")

	// ErrStorageUnavailable is returned when the shared container or the
	// key-value store cannot be accessed (sandbox or permission errors, a
	// locked or unopenable database, an I/O failure). It is transient: readers
	// move on to the next source and writers retry on the next natural write.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrLockTimeout is returned when the cross-process write lock cannot be
	// acquired before the deadline.
	ErrLockTimeout = errors.New("write lock timeout")
)

// Low-level database operation errors, wrapped by [KVStore] methods when a
// SQL-level operation fails before any key-value logic can be applied.
var (
	// ErrExecutingQuery is returned when a SELECT against the kv table fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE against the
	// kv table fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrBeginningTransaction is returned when the driver cannot start a new
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
