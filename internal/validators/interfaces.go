// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks producer input before it reaches the snapshot
// writer: promise records must carry an id and content, keep their
// timestamps ordered and, in an authenticated update, belong to the user.
//
// Validate accepts optional field names to restrict the checks to a subset.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
