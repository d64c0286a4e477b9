//go:build darwin || linux

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryLockFile attempts to take an exclusive lock without blocking.
func tryLockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

func unlockFile(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
