// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
)

// Shared container layout. The container root is configured; everything
// below it is fixed so that producer and consumers agree without talking.
const (
	DataDirName     = "WidgetData"
	DataFileName    = "widget_data.json"
	ClearedFileName = "widget_data.cleared"

	lockFileName  = ".write.lock"
	probeFileName = ".write_test"

	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644

	defaultReadRetryDelay = 50 * time.Millisecond
	defaultLockTimeout    = 2 * time.Second
)

// FileStore is the primary snapshot backend: one JSON file in a fixed
// subdirectory of the shared container. It survives restarts and is the
// only backend whose permissions are tuned for readers running in another
// protection domain.
//
// FileStore implements [Backend], [ClearMarker] and [WriteLocker].
type FileStore struct {
	dir         string
	path        string
	clearedPath string
	lockPath    string

	readRetryDelay time.Duration
	lockTimeout    time.Duration

	logger *logger.Logger
}

// NewFileStore returns a FileStore rooted at containerDir. Nothing is created
// on disk until the first write, so consumers can construct it freely.
func NewFileStore(containerDir string, log *logger.Logger) (*FileStore, error) {
	containerDir = strings.TrimSpace(containerDir)
	if containerDir == "" {
		return nil, errors.New("empty container directory")
	}

	dir := filepath.Join(containerDir, DataDirName)
	return &FileStore{
		dir:            dir,
		path:           filepath.Join(dir, DataFileName),
		clearedPath:    filepath.Join(dir, ClearedFileName),
		lockPath:       filepath.Join(dir, lockFileName),
		readRetryDelay: defaultReadRetryDelay,
		lockTimeout:    defaultLockTimeout,
		logger:         log,
	}, nil
}

// Name implements [Backend].
func (f *FileStore) Name() string {
	return "file"
}

// Path returns the location of the snapshot file.
func (f *FileStore) Path() string {
	return f.path
}

// Read implements [Backend]. The plain read is tried first; some sandboxes
// intermittently deny it, so on failure a second strategy opens the file
// explicitly after a short pause.
func (f *FileStore) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	data, err := os.ReadFile(f.path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}

	f.logger.Warn().Err(err).
		Str("func", "FileStore.Read").
		Str("path", f.path).
		Msg("direct read failed, retrying with explicit open")

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, ctx.Err())
	case <-time.After(f.readRetryDelay):
	}

	data, retryErr := readViaHandle(f.path)
	if retryErr == nil {
		return data, nil
	}
	return nil, classifyFSError(errors.Join(err, retryErr))
}

func readViaHandle(path string) ([]byte, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	return io.ReadAll(file)
}

// Write implements [Backend]. The bytes go to a temp file in the same
// directory which is synced and renamed over the snapshot file, then the
// permissions are widened for cross-domain readers and the quarantine marker
// is cleared.
func (f *FileStore) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := f.ensureDir(); err != nil {
		return err
	}
	if err := writeAtomic(f.dir, f.path, data); err != nil {
		return classifyFSError(err)
	}

	if err := clearQuarantine(f.path); err != nil {
		f.logger.Warn().Err(err).
			Str("func", "FileStore.Write").
			Str("path", f.path).
			Msg("could not clear quarantine attribute")
	}

	f.logger.Debug().
		Str("func", "FileStore.Write").
		Str("path", f.path).
		Int("bytes", len(data)).
		Msg("snapshot file written")
	return nil
}

// Delete implements [Backend].
func (f *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return removeIfExists(f.path)
}

// MarkCleared implements [ClearMarker] with a small marker file next to the
// snapshot holding the sign-out time.
func (f *FileStore) MarkCleared(ctx context.Context, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := f.ensureDir(); err != nil {
		return err
	}
	if err := writeAtomic(f.dir, f.clearedPath, []byte(at.UTC().Format(time.RFC3339Nano))); err != nil {
		return classifyFSError(err)
	}
	return nil
}

// ClearedAt implements [ClearMarker]. A marker whose contents cannot be
// parsed still counts as set, with a zero time.
func (f *FileStore) ClearedAt(ctx context.Context) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	data, err := os.ReadFile(f.clearedPath)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, classifyFSError(err)
	}

	at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, true, nil
	}
	return at, true, nil
}

// Unmark implements [ClearMarker].
func (f *FileStore) Unmark(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return removeIfExists(f.clearedPath)
}

// CheckAccess verifies that the container is writable by creating and
// removing a probe file, and that the snapshot directory carries the
// expected permissions.
func (f *FileStore) CheckAccess() error {
	if err := f.ensureDir(); err != nil {
		return err
	}

	probe := filepath.Join(f.dir, probeFileName)
	if err := os.WriteFile(probe, []byte("test"), filePerm); err != nil {
		return classifyFSError(fmt.Errorf("write probe: %w", err))
	}
	if err := os.Remove(probe); err != nil {
		return classifyFSError(fmt.Errorf("remove probe: %w", err))
	}

	info, err := os.Stat(f.dir)
	if err != nil {
		return classifyFSError(err)
	}
	if info.Mode().Perm() != dirPerm {
		return fmt.Errorf("%w: %s has mode %s, want %s", ErrStorageUnavailable, f.dir, info.Mode().Perm(), dirPerm)
	}
	return nil
}

func (f *FileStore) ensureDir() error {
	if err := os.MkdirAll(f.dir, dirPerm); err != nil {
		return classifyFSError(fmt.Errorf("create data dir: %w", err))
	}
	// MkdirAll is subject to umask and leaves existing directories alone.
	if err := os.Chmod(f.dir, dirPerm); err != nil {
		f.logger.Warn().Err(err).
			Str("func", "FileStore.ensureDir").
			Str("dir", f.dir).
			Msg("could not set data dir permissions")
	}
	return nil
}

// writeAtomic writes data to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	// CreateTemp opens with 0600; readers in another domain need 0644.
	if err = os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return classifyFSError(err)
	}
	return nil
}

// classifyFSError maps a file-system error onto the storage sentinels.
func classifyFSError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
