// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	lockInitialBackoff = 5 * time.Millisecond
	lockMaxBackoff     = 50 * time.Millisecond
)

// Lock implements [WriteLocker] with an OS file lock on a file inside the
// snapshot directory, so that two producer processes sharing a container
// never interleave their read-merge-write cycles. The OS drops the lock when
// the holder exits, including on a crash.
func (f *FileStore) Lock(ctx context.Context) (func(), error) {
	if err := f.ensureDir(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(f.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, classifyFSError(fmt.Errorf("open lock file: %w", err))
	}

	deadline := time.Now().Add(f.lockTimeout)
	backoff := lockInitialBackoff

	for {
		if err = tryLockFile(file); err == nil {
			return func() {
				unlockFile(file)
				file.Close()
			}, nil
		}

		if time.Now().After(deadline) {
			file.Close()
			return nil, fmt.Errorf("%w after %v: %w", ErrLockTimeout, f.lockTimeout, err)
		}

		select {
		case <-ctx.Done():
			file.Close()
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > lockMaxBackoff {
			backoff = lockMaxBackoff
		}
	}
}
