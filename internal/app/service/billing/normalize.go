package billing

import (
	"strings"
	"time"
)

// isoMillis renders UTC instants the way the provider-facing rows store them.
const isoMillis = "2006-01-02T15:04:05.000Z"

// NormalizeTimestamp converts provider epoch seconds into an ISO-8601 string
// with millisecond precision. Nil input yields nil; there is no error path.
func NormalizeTimestamp(epochSeconds *int64) *string {
	if epochSeconds == nil {
		return nil
	}
	s := time.Unix(*epochSeconds, 0).UTC().Format(isoMillis)
	return &s
}

// NormalizeStatus lower-cases and trims a raw provider status. Nil input and
// strings that are empty after trimming yield nil.
func NormalizeStatus(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*raw))
	if s == "" {
		return nil
	}
	return &s
}
