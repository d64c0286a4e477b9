package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyPromiseID     = errors.New("promise id is required")
	ErrDuplicatePromiseID = errors.New("duplicate promise id")
	ErrEmptyContent       = errors.New("promise content is required")
	ErrInvalidTimestamps  = errors.New("promise updated_at is before created_at")
	ErrOwnerMismatch      = errors.New("promise owner does not match user")
	ErrEmptyUserID        = errors.New("user id is required for an authenticated snapshot")
)
