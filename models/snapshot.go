// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PromiseRecord is one tracked commitment, already normalized for display.
// The producer maps its richer promise objects down to this shape before
// they are synchronized.
type PromiseRecord struct {
	// ID identifies the promise within the owner's set.
	ID string `json:"id"`

	// CreatedAt is when the promise was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the promise was last changed. Never before CreatedAt.
	UpdatedAt time.Time `json:"updated_at"`

	// Content is the free-text body of the promise.
	Content string `json:"content"`

	// OwnerID is the identity of the promise's owner. It matches
	// Snapshot.UserID for authenticated snapshots; the sync layer does not
	// re-validate it.
	OwnerID string `json:"owner_id"`

	// Resolved reports whether the promise was kept.
	Resolved bool `json:"resolved"`
}

// Snapshot is the single synchronized unit shared between the producer and
// its consumers.
//
// Promises keep the producer's insertion order. UserID and UserEmail are nil
// when unknown and encode as JSON null.
type Snapshot struct {
	Promises        []PromiseRecord `json:"promises"`
	UserID          *string         `json:"userId"`
	UserEmail       *string         `json:"userEmail"`
	IsAuthenticated bool            `json:"isAuthenticated"`
	LastUpdated     time.Time       `json:"lastUpdated"`

	// Version grows by exactly one on every successful write. Zero means the
	// snapshot was never written by a producer (default or remote-built).
	Version int64 `json:"version"`
}

// EmptySnapshot returns the default unauthenticated snapshot handed out when
// no source has any data.
func EmptySnapshot() Snapshot {
	return Snapshot{Promises: []PromiseRecord{}}
}

// Total returns the number of promises in the snapshot.
func (s Snapshot) Total() int {
	return len(s.Promises)
}

// Completed returns the number of resolved promises.
func (s Snapshot) Completed() int {
	n := 0
	for _, p := range s.Promises {
		if p.Resolved {
			n++
		}
	}
	return n
}

// Pending returns the number of unresolved promises.
func (s Snapshot) Pending() int {
	return s.Total() - s.Completed()
}

// CompletionPercentage returns the share of resolved promises as an integer
// percentage, truncated toward zero. An empty snapshot reports 0.
func (s Snapshot) CompletionPercentage() int {
	if s.Total() == 0 {
		return 0
	}
	return s.Completed() * 100 / s.Total()
}

// UserIDOrEmpty returns the user ID or "" when it is unknown.
func (s Snapshot) UserIDOrEmpty() string {
	if s.UserID == nil {
		return ""
	}
	return *s.UserID
}

// UserEmailOrEmpty returns the user email or "" when it is unknown.
func (s Snapshot) UserEmailOrEmpty() string {
	if s.UserEmail == nil {
		return ""
	}
	return *s.UserEmail
}

// Clone returns a deep copy, so callers can hand snapshots across goroutines
// without sharing the promise slice or the identity pointers.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Promises = make([]PromiseRecord, len(s.Promises))
	copy(out.Promises, s.Promises)
	if s.UserID != nil {
		out.UserID = StringPtr(*s.UserID)
	}
	if s.UserEmail != nil {
		out.UserEmail = StringPtr(*s.UserEmail)
	}
	return out
}
