// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-promise-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the promise identifier.
	FieldID = "id"

	// FieldContent targets the free-text body.
	FieldContent = "content"

	// FieldTimestamps targets the created_at / updated_at ordering.
	FieldTimestamps = "timestamps"

	// FieldPromises targets the promise list of a partial snapshot.
	FieldPromises = "promises"

	// FieldOwner targets the owner check between the promise list and the
	// user of an authenticated partial snapshot.
	FieldOwner = "owner"
)

// PromiseValidator implements the Validator interface for the producer's
// input: single promise records, promise lists and partial snapshots.
//
// The sync layer transports pre-validated records and never calls it; the
// producer command validates what it reads before handing it to the writer.
type PromiseValidator struct{}

// NewPromiseValidator returns a PromiseValidator as the Validator interface.
func NewPromiseValidator() Validator {
	return &PromiseValidator{}
}

// Validate dispatches on the value type. Both values and pointers are
// accepted.
func (v *PromiseValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PromiseRecord:
		return v.validatePromise(ctx, value, fields...)
	case *models.PromiseRecord:
		return v.validatePromise(ctx, *value, fields...)

	case []models.PromiseRecord:
		return v.validatePromises(ctx, value)

	case models.PartialSnapshot:
		return v.validatePartial(ctx, value, fields...)
	case *models.PartialSnapshot:
		return v.validatePartial(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *PromiseValidator) validatePromise(_ context.Context, p models.PromiseRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldContent, FieldTimestamps}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if p.ID == "" {
				return ErrEmptyPromiseID
			}
		case FieldContent:
			if p.Content == "" {
				return ErrEmptyContent
			}
		case FieldTimestamps:
			if p.UpdatedAt.Before(p.CreatedAt) {
				return ErrInvalidTimestamps
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *PromiseValidator) validatePromises(ctx context.Context, promises []models.PromiseRecord) error {
	seen := make(map[string]struct{}, len(promises))
	for i, p := range promises {
		if err := v.validatePromise(ctx, p); err != nil {
			return fmt.Errorf("validation error at index %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("validation error at index %d: %w: %s", i, ErrDuplicatePromiseID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func (v *PromiseValidator) validatePartial(ctx context.Context, partial models.PartialSnapshot, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPromises, FieldOwner}
	}

	for _, f := range fields {
		switch f {
		case FieldPromises:
			if err := v.validatePromises(ctx, partial.Promises); err != nil {
				return err
			}
		case FieldOwner:
			// Only checkable when the update itself names the user.
			authenticated := partial.IsAuthenticated != nil && *partial.IsAuthenticated
			if !authenticated || partial.UserID == nil {
				continue
			}
			if *partial.UserID == "" {
				return ErrEmptyUserID
			}
			for i, p := range partial.Promises {
				if p.OwnerID != *partial.UserID {
					return fmt.Errorf("validation error at index %d: %w: %q", i, ErrOwnerMismatch, p.OwnerID)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
