// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the widget application runtime.
//
// It wires the local storages, the optional remote backend, the change
// signal, the refresh scheduler and the terminal UI into a single process
// lifecycle.
package client
