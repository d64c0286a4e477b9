// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-promise-sync/models"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSnapshot() models.Snapshot {
	return models.Snapshot{
		Promises: []models.PromiseRecord{{
			ID:        "p1",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 3, 1, 11, 30, 0, 500_000_000, time.UTC),
			Content:   "Call mom",
			OwnerID:   "u1",
		}},
		UserID:          models.StringPtr("u1"),
		IsAuthenticated: true,
		LastUpdated:     time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC),
		Version:         2,
	}
}

// TestEncode_Golden pins the canonical wire layout consumers depend on.
func TestEncode_Golden(t *testing.T) {
	data, err := Encode(fixtureSnapshot())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "snapshot_wire", data)
}

func TestEncode_ConvertsToUTC(t *testing.T) {
	s := fixtureSnapshot()
	s.LastUpdated = time.Date(2026, 3, 2, 10, 15, 0, 0, time.FixedZone("CEST", 2*60*60))

	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastUpdated": "2026-03-02T08:15:00Z"`)
}

func TestEncode_EmptyPromisesIsArray(t *testing.T) {
	data, err := Encode(models.EmptySnapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"promises": []`)
	assert.Contains(t, string(data), `"userId": null`)
}

func TestDecode_RoundTripPreservesFields(t *testing.T) {
	want := fixtureSnapshot()
	data, err := Encode(want)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, got.Promises, 1)
	assert.True(t, want.Promises[0].UpdatedAt.Equal(got.Promises[0].UpdatedAt))
	assert.Equal(t, "u1", got.UserIDOrEmpty())
	assert.Nil(t, got.UserEmail)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, int64(2), got.Version)
	assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	payload := `{"promises":[],"userId":"u9","isAuthenticated":true,"lastUpdated":"2026-01-01T00:00:00Z","version":4,"theme":"dark","extra":{"a":1}}`

	got, err := Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "u9", got.UserIDOrEmpty())
	assert.Equal(t, int64(4), got.Version)
}

func TestDecode_MissingOptionalFields(t *testing.T) {
	got, err := Decode([]byte(`{"isAuthenticated":false,"version":1}`))
	require.NoError(t, err)

	assert.NotNil(t, got.Promises)
	assert.Empty(t, got.Promises)
	assert.Nil(t, got.UserID)
	assert.Nil(t, got.UserEmail)
	assert.True(t, got.LastUpdated.IsZero())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "whitespace", payload: "  \n"},
		{name: "null", payload: "null"},
		{name: "array", payload: "[]"},
		{name: "truncated", payload: `{"promises":[{"id":"p1"`},
		{name: "wrong type", payload: `{"isAuthenticated":"yes"}`},
		{name: "bad timestamp", payload: `{"lastUpdated":"yesterday"}`},
		{name: "negative version", payload: `{"version":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestParseTimestamp_Layouts(t *testing.T) {
	want := time.Date(2026, 7, 13, 11, 31, 2, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-07-13T11:31:02Z", want: want},
		{in: "2026-07-13T13:31:02+02:00", want: want},
		{in: "2026-07-13T11:31:02+0000", want: want},
		{in: "2026-07-13T11:31:02", want: want},
		{in: "2026-07-13T11:31:02.250000", want: want.Add(250 * time.Millisecond)},
		{in: "2026-07-13T11:31:02.250000+00:00", want: want.Add(250 * time.Millisecond)},
		{in: "2026-07-13 11:31:02.25", want: want.Add(250 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "13/07/2026", "now"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrDecode, in)
	}
}

func TestDecodePromises(t *testing.T) {
	payload := `[{"id":"7","created_at":"2026-07-13T11:31:02.123456","updated_at":"2026-07-13T11:31:02.123456","content":"Send the deck","owner_id":"u1","resolved":true,"platform":"slack"}]`

	got, err := DecodePromises([]byte(payload))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "7", got[0].ID)
	assert.True(t, got[0].Resolved)

	_, err = DecodePromises([]byte(`{"id":"7"}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncodePromises_RoundTrip(t *testing.T) {
	data, err := EncodePromises(fixtureSnapshot().Promises)
	require.NoError(t, err)

	got, err := DecodePromises(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Call mom", got[0].Content)
}

func TestLegacyToSnapshot(t *testing.T) {
	list, err := EncodePromises(fixtureSnapshot().Promises)
	require.NoError(t, err)
	lastSync := time.Date(2025, 7, 13, 11, 31, 2, 0, time.UTC)

	got, err := LegacyToSnapshot(models.LegacySnapshot{
		PromisesJSON:    list,
		IsAuthenticated: models.BoolPtr(true),
		UserID:          models.StringPtr("legacy-user"),
		LastSync:        &lastSync,
	})
	require.NoError(t, err)

	assert.Len(t, got.Promises, 1)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, "legacy-user", got.UserIDOrEmpty())
	assert.Nil(t, got.UserEmail)
	assert.Zero(t, got.Version)
	assert.True(t, lastSync.Equal(got.LastUpdated))
}

func TestLegacyToSnapshot_MissingFlagsDefaultToSignedOut(t *testing.T) {
	got, err := LegacyToSnapshot(models.LegacySnapshot{PromisesJSON: []byte(`[]`)})
	require.NoError(t, err)

	assert.False(t, got.IsAuthenticated)
	assert.Nil(t, got.UserID)
	assert.Empty(t, got.Promises)
}

func TestLegacyToSnapshot_BadList(t *testing.T) {
	_, err := LegacyToSnapshot(models.LegacySnapshot{PromisesJSON: []byte(`not json`)})
	assert.ErrorIs(t, err, ErrDecode)
}
