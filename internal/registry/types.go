package registry

import (
	"strings"
	"time"
)

// NotAvailable is rendered in place of a date the registry did not report.
const NotAvailable = "N/A"

// Tag is a single named image version as reported by a registry.
type Tag struct {
	Name      string
	Timestamp string
}

// Date renders the tag timestamp as YYYY-MM-DD in the zone the registry
// reported, or NotAvailable when the timestamp is absent or cannot be parsed.
func (t Tag) Date() string {
	parsed, ok := parseTimestamp(t.Timestamp)
	if !ok {
		return NotAvailable
	}
	return parsed.Format(time.DateOnly)
}

func (t Tag) String() string {
	return t.Name + " - " + t.Date()
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	// Registries occasionally send offsets or precisions Go's layouts reject;
	// the calendar date before the T is still trustworthy.
	if day, _, found := strings.Cut(value, "T"); found {
		if parsed, err := time.Parse(time.DateOnly, day); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
