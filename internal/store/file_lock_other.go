//go:build !darwin && !linux

package store

import "os"

// Without flock the in-process mutex of the writer is the only serialization.
func tryLockFile(_ *os.File) error {
	return nil
}

func unlockFile(_ *os.File) {}
