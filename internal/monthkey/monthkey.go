// Package monthkey formats and parses the "YYYY-MM" keys that monthly
// allocations are stored under. A key always denotes the first calendar day
// of its month.
package monthkey

import (
	"fmt"
	"time"
)

// Layout is the canonical month key layout.
const Layout = "2006-01"

// Format returns the key for a year and month, e.g. "2025-01".
func Format(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Parse parses a month key into its year and month.
func Parse(key string) (int, time.Month, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// Normalize returns the key for the month containing t.
func Normalize(t time.Time) string {
	return Format(t.Year(), t.Month())
}

// FirstOfMonth returns local midnight on the first day of the key's month.
func FirstOfMonth(key string, loc *time.Location) (time.Time, error) {
	year, month, err := Parse(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, loc), nil
}

// Prev returns the key for the month before key.
func Prev(key string) (string, error) {
	year, month, err := Parse(key)
	if err != nil {
		return "", err
	}
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Normalize(t), nil
}
