// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package signal carries payload-free "data changed" notifications from the
// snapshot producer to any number of consumers.
//
// A signal only says "something changed, reload". It never carries data, and
// observers must tolerate both duplicates and losses: a consumer that misses
// a signal catches up on its next periodic reload.
package signal

import (
	"context"
	"errors"
)

//go:generate mockgen -source=signal.go -destination=../mock/signal_mock.go -package=mock

// DataChanged is the well-known name posted after every snapshot write or
// sign-out.
const DataChanged = "com.promisekeeper.widget.datachanged"

// ErrClosed is returned by a Channel after Close.
var ErrClosed = errors.New("signal channel closed")

// Channel posts and observes named signals.
type Channel interface {
	// Post emits the named signal. Delivery is best effort.
	Post(ctx context.Context, name string) error

	// Observe registers fn for the named signal until the returned cancel
	// function is called. fn must not block.
	Observe(name string, fn func()) (cancel func(), err error)

	// Close stops delivery and releases resources.
	Close() error
}
