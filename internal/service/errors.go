package service

import "errors"

var (
	// ErrInvariantViolation is returned by the writer when an ordinary write
	// would lower isAuthenticated from true to false. Only SignOut may do that.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrSourcePanicked wraps a panic recovered from a loader source.
	ErrSourcePanicked = errors.New("snapshot source panicked")

	// ErrNilBackend is returned by constructors given no primary backend.
	ErrNilBackend = errors.New("primary backend is nil")
)
