package tui

import (
	"time"

	"github.com/MKhiriev/go-promise-sync/models"
)

type entryMsg struct {
	entry models.Entry
}

// deadlineMsg fires when the entry that was current at scheduling time
// reaches its ValidUntil.
type deadlineMsg struct {
	validUntil time.Time
}

type entriesClosedMsg struct{}
