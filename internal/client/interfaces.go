// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"io"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
	// Print loads once and writes the resulting entry to out.
	Print(ctx context.Context, out io.Writer) error
	// Close releases storages and the signal channel.
	Close() error
}

// Display is the interactive front end driven by the scheduler.
type Display interface {
	Run(ctx context.Context) error
}
