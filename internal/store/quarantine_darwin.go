//go:build darwin

package store

import (
	"errors"

	"golang.org/x/sys/unix"
)

const quarantineAttr = "com.apple.quarantine"

// clearQuarantine removes the "downloaded from elsewhere" marker that makes
// sandboxed readers refuse the file. A missing attribute is not an error.
func clearQuarantine(path string) error {
	err := unix.Removexattr(path, quarantineAttr)
	if err == nil || errors.Is(err, unix.ENOATTR) {
		return nil
	}
	return err
}
