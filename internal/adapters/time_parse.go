package adapters

import (
	"strconv"
	"strings"
	"time"
)

// siTimeLayouts covers the timestamp forms seen in SI responses. Values
// without a zone are taken as UTC.
var siTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
}

// parseTimeFlexible returns the zero time for empty or unrecognized input.
// A bare integer is read as unix milliseconds.
func parseTimeFlexible(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range siTimeLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	if millis, err := strconv.ParseInt(trimmed, 10, 64); err == nil && millis > 0 {
		return time.UnixMilli(millis).UTC()
	}
	return time.Time{}
}
