//go:build !darwin

package store

// clearQuarantine is a no-op on platforms without a quarantine marker.
func clearQuarantine(_ string) error {
	return nil
}
