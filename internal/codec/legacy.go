// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"

	"github.com/MKhiriev/go-promise-sync/models"
)

// LegacyToSnapshot converts the pre-unification key-value layout into the
// canonical snapshot shape. It is a pure function: the result is handed to
// the reader as-is and is never written back, so the next producer write is
// what normalizes the stores.
//
// The legacy layout carried no e-mail and no version; the result has a nil
// UserEmail and version 0. A missing auth flag reads as unauthenticated and
// a missing sync time leaves LastUpdated zero.
func LegacyToSnapshot(legacy models.LegacySnapshot) (models.Snapshot, error) {
	promises, err := DecodePromises(legacy.PromisesJSON)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("legacy promise list: %w", err)
	}

	s := models.Snapshot{
		Promises: promises,
		UserID:   legacy.UserID,
	}
	if legacy.IsAuthenticated != nil {
		s.IsAuthenticated = *legacy.IsAuthenticated
	}
	if legacy.LastSync != nil {
		s.LastUpdated = *legacy.LastSync
	}

	return s, nil
}
