// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package signal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/internal/utils"
)

const beaconSuffix = ".beacon"

// BeaconChannel delivers signals across processes through beacon files in a
// shared directory. Post atomically replaces <dir>/<name>.beacon with a fresh
// nonce; every BeaconChannel watching the directory sees the change and runs
// the observers of that name on its watcher goroutine.
type BeaconChannel struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *logger.Logger

	mu        sync.RWMutex
	observers map[string]map[uint64]func()
	nextID    uint64
	closed    bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewBeaconChannel creates dir when missing and starts watching it.
func NewBeaconChannel(dir string, log *logger.Logger) (*BeaconChannel, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create beacon dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err = w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch beacon dir %s: %w", dir, err)
	}

	c := &BeaconChannel{
		dir:       dir,
		watcher:   w,
		logger:    log,
		observers: make(map[string]map[uint64]func()),
		done:      make(chan struct{}),
	}

	c.wg.Add(1)
	go c.run()

	log.Debug().Str("dir", dir).Msg("beacon channel watching")
	return c, nil
}

// Post implements [Channel].
func (c *BeaconChannel) Post(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(c.dir, ".beacon-*.tmp")
	if err != nil {
		return fmt.Errorf("create beacon temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(utils.NewNonce())
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpName, c.beaconPath(name))
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("post %s: %w", name, err)
	}

	c.logger.Debug().Str("func", "BeaconChannel.Post").Str("signal", name).Msg("signal posted")
	return nil
}

// Observe implements [Channel].
func (c *BeaconChannel) Observe(name string, fn func()) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	return register(c.observers, &c.nextID, name, fn, &c.mu), nil
}

// Close implements [Channel]. It waits for the watcher goroutine to exit.
func (c *BeaconChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.done)
	err := c.watcher.Close()
	c.wg.Wait()
	return err
}

func (c *BeaconChannel) beaconPath(name string) string {
	return filepath.Join(c.dir, name+beaconSuffix)
}

func (c *BeaconChannel) run() {
	defer c.wg.Done()

	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			// rename-over shows up as Create, in-place rewrites as Write
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, beaconSuffix) {
				continue
			}
			c.dispatch(strings.TrimSuffix(base, beaconSuffix))

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				c.logger.Warn().Err(err).Msg("beacon events overflowed, notifying all observers")
				c.dispatchAll()
				continue
			}
			c.logger.Error().Err(err).Str("func", "BeaconChannel.run").Msg("beacon watcher error")

		case <-c.done:
			return
		}
	}
}

func (c *BeaconChannel) dispatch(name string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, fn := range c.observers[name] {
		fn()
	}
}

func (c *BeaconChannel) dispatchAll() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, byID := range c.observers {
		for _, fn := range byID {
			fn()
		}
	}
}
