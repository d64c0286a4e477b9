// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec implements the canonical wire format of a snapshot: a single
// UTF-8 JSON object whose timestamps are ISO-8601 strings.
//
// Decode is tolerant in the ways the format requires (unknown fields are
// ignored, missing optional fields decode as absent) and strict about
// everything else: any payload that is not a JSON object describing a
// snapshot yields [ErrDecode], which callers treat as "this source has no
// data".
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-promise-sync/models"
)

// wireTime is a time.Time that encodes as UTC RFC 3339 with fractional
// seconds and decodes every layout in [timeLayouts].
type wireTime time.Time

func (t wireTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = wireTime(parsed)
	return nil
}

type wirePromise struct {
	ID        string   `json:"id"`
	CreatedAt wireTime `json:"created_at"`
	UpdatedAt wireTime `json:"updated_at"`
	Content   string   `json:"content"`
	OwnerID   string   `json:"owner_id"`
	Resolved  bool     `json:"resolved"`
}

type wireSnapshot struct {
	Promises        []wirePromise `json:"promises"`
	UserID          *string       `json:"userId"`
	UserEmail       *string       `json:"userEmail"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	LastUpdated     wireTime      `json:"lastUpdated"`
	Version         int64         `json:"version"`
}

// Encode serializes s into the canonical wire format.
func Encode(s models.Snapshot) ([]byte, error) {
	w := wireSnapshot{
		Promises:        toWirePromises(s.Promises),
		UserID:          s.UserID,
		UserEmail:       s.UserEmail,
		IsAuthenticated: s.IsAuthenticated,
		LastUpdated:     wireTime(s.LastUpdated),
		Version:         s.Version,
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a canonical wire payload. Malformed, empty or null payloads,
// as well as a negative version, yield an error wrapping [ErrDecode].
func Decode(data []byte) (models.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.Snapshot{}, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	if trimmed[0] != '{' {
		return models.Snapshot{}, fmt.Errorf("%w: payload is not a JSON object", ErrDecode)
	}

	var w wireSnapshot
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if w.Version < 0 {
		return models.Snapshot{}, fmt.Errorf("%w: negative version %d", ErrDecode, w.Version)
	}

	return models.Snapshot{
		Promises:        fromWirePromises(w.Promises),
		UserID:          w.UserID,
		UserEmail:       w.UserEmail,
		IsAuthenticated: w.IsAuthenticated,
		LastUpdated:     time.Time(w.LastUpdated),
		Version:         w.Version,
	}, nil
}

// EncodePromises serializes a bare promise list, the shape used by the remote
// backend and by the legacy list key.
func EncodePromises(promises []models.PromiseRecord) ([]byte, error) {
	data, err := json.Marshal(toWirePromises(promises))
	if err != nil {
		return nil, fmt.Errorf("encode promises: %w", err)
	}
	return data, nil
}

// DecodePromises parses a JSON array of promise records.
func DecodePromises(data []byte) ([]models.PromiseRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: promise list is not a JSON array", ErrDecode)
	}

	var w []wirePromise
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return fromWirePromises(w), nil
}

func toWirePromises(in []models.PromiseRecord) []wirePromise {
	out := make([]wirePromise, 0, len(in))
	for _, p := range in {
		out = append(out, wirePromise{
			ID:        p.ID,
			CreatedAt: wireTime(p.CreatedAt),
			UpdatedAt: wireTime(p.UpdatedAt),
			Content:   p.Content,
			OwnerID:   p.OwnerID,
			Resolved:  p.Resolved,
		})
	}
	return out
}

func fromWirePromises(in []wirePromise) []models.PromiseRecord {
	out := make([]models.PromiseRecord, 0, len(in))
	for _, p := range in {
		out = append(out, models.PromiseRecord{
			ID:        p.ID,
			CreatedAt: time.Time(p.CreatedAt),
			UpdatedAt: time.Time(p.UpdatedAt),
			Content:   p.Content,
			OwnerID:   p.OwnerID,
			Resolved:  p.Resolved,
		})
	}
	return out
}
