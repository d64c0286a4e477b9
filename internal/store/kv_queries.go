// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	getValue = `
		SELECT value
		FROM kv
		WHERE key = ?;`

	getLegacyValues = `
		SELECT
			key,
			value
		FROM kv
		WHERE key IN (?, ?, ?, ?);`

	upsertValue = `
		INSERT INTO kv (
			key,
			value,
			updated_at
		) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at;`

	deleteValue = `
		DELETE FROM kv
		WHERE key = ?;`
)
