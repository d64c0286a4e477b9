package adapter

import "errors"

var (
	// ErrNetwork covers transport failures, timeouts and unexpected statuses.
	ErrNetwork = errors.New("remote backend unreachable")
	// ErrUnauthorized is returned when the backend rejects the credentials.
	ErrUnauthorized = errors.New("remote backend rejected credentials")
	// ErrNoToken is returned when no access token is available.
	ErrNoToken = errors.New("no access token")
	// ErrTokenExpired is returned when the access token has expired, either
	// by its own claims or according to the backend.
	ErrTokenExpired = errors.New("access token expired")
)
