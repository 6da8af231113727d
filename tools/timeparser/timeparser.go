package timeparser

import (
	"fmt"
	"strings"
	"time"
)

// formats accepted for instants, tried in order
var formats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // no zone, read as UTC
	"2006-01-02T15:04",              // browser datetime-local
	"2006-01-02",                    // date only, midnight UTC
}

// ParseInstant parses an ISO-8601 instant as sent by clients and found in
// tracker exports. Values without a zone are taken as UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: empty value")
	}

	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp '%s': %w", s, lastErr)
}

// ParseOptionalInstant is ParseInstant for values that may be blank
func ParseOptionalInstant(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseInstant(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
