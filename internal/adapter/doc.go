// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the remote promise backend.
//
// [RemoteStore] is read-only: it fetches the signed-in user's promise list
// from a PostgREST-style endpoint. The owner filter comes from the access
// token's subject, so a missing or expired token short-circuits before any
// network call.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] (e.g. [ErrUnauthorized]
// for 401, [ErrNetwork] for everything else that went wrong in transit).
package adapter
