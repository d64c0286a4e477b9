// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package signal

import (
	"context"
	"sync"
)

// LocalChannel delivers signals between goroutines of one process. Each
// callback runs on its own goroutine.
type LocalChannel struct {
	mu        sync.RWMutex
	observers map[string]map[uint64]func()
	nextID    uint64
	closed    bool
}

// NewLocalChannel returns an empty LocalChannel.
func NewLocalChannel() *LocalChannel {
	return &LocalChannel{
		observers: make(map[string]map[uint64]func()),
	}
}

// Post implements [Channel].
func (c *LocalChannel) Post(_ context.Context, name string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}
	for _, fn := range c.observers[name] {
		go fn()
	}
	return nil
}

// Observe implements [Channel].
func (c *LocalChannel) Observe(name string, fn func()) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	return register(c.observers, &c.nextID, name, fn, &c.mu), nil
}

// Close implements [Channel].
func (c *LocalChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.observers = make(map[string]map[uint64]func())
	return nil
}

// register adds fn under name and returns its idempotent cancel function.
// The caller holds mu.
func register(observers map[string]map[uint64]func(), nextID *uint64, name string, fn func(), mu *sync.RWMutex) func() {
	*nextID++
	id := *nextID

	if observers[name] == nil {
		observers[name] = make(map[uint64]func())
	}
	observers[name][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()
			delete(observers[name], id)
		})
	}
}
