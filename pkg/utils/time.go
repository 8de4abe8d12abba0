package utils

import "time"

// FormatRFC3339 renders a timestamp for the persistence media: UTC,
// RFC3339, second precision. Both serializers use this so stored
// timestamps always parse back with ParseRFC3339.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a timestamp stored by FormatRFC3339
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
