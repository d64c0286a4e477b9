// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"
	"strings"
	"time"
)

// timeLayouts lists the accepted timestamp layouts in the order they are
// tried. Zone-less layouts are what the remote backend emits for
// "timestamp without time zone" columns; they are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses s using every layout the wire format accepts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrDecode)
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unsupported timestamp %q", ErrDecode, s)
}
