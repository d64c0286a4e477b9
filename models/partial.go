// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PartialSnapshot is an incoming update for the writer. Any subset of fields
// may be present; a nil field means "no opinion, keep what is stored".
//
// A non-nil empty Promises slice is a real value: it replaces the stored list
// with an empty one.
type PartialSnapshot struct {
	Promises        []PromiseRecord
	UserID          *string
	UserEmail       *string
	IsAuthenticated *bool
}

// HasPromises reports whether the update carries a promise list.
func (p PartialSnapshot) HasPromises() bool {
	return p.Promises != nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// LegacySnapshot holds the raw values of the pre-unification key-value
// layout, where the promise list, the auth flag and the user identity lived
// under separate keys. Nil fields were not present in the store.
type LegacySnapshot struct {
	PromisesJSON    []byte
	IsAuthenticated *bool
	UserID          *string
	LastSync        *time.Time
}

// Entry is what the refresh scheduler hands to the display host: a snapshot
// plus the moment by which the host should check again even if no change
// signal arrives.
type Entry struct {
	Snapshot   Snapshot
	ValidUntil time.Time

	// Source names the loader source that produced Snapshot
	// ("default" when every source came up empty).
	Source string
}
