package utils

import "github.com/google/uuid"

// NewNonce returns a fresh time-ordered UUID, falling back to a random one.
func NewNonce() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
