// Package models defines the state records and wire values shared by the
// botdash API client and dashboard controllers.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time is a timestamp decoded leniently from the backend. The backend
// emits naive UTC datetimes ("2024-05-01T10:00:00.123456") as well as
// RFC 3339 values; naive values are read as UTC.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTime parses any of the timestamp layouts the backend produces.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Time{t}, nil
		}
	}
	return Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// UnmarshalJSON accepts a string timestamp or null. Values in no known
// layout decode to the zero time so one bad record does not fail a list.
func (t *Time) UnmarshalJSON(data []byte) error {
	*t = Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}
	if parsed, err := ParseTime(s); err == nil {
		*t = parsed
	}
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
