package clinic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// The back office emits ISO 8601 with or without a zone, SQL datetimes and bare dates.
// Datetimes without a zone are wall-clock times of the machine's location; bare dates
// are UTC midnight.
var timestampLayouts = []struct {
	layout   string
	wallTime bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05", true},
	{time.DateOnly, false},
}

// Timestamp is a point in time as exchanged with the back office. It marshals as RFC 3339.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// TimestampPtr is a convenience for optional timestamp fields.
func TimestampPtr(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// ParseTimestamp reads s with zone-less datetimes taken in time.Local.
func ParseTimestamp(s string) (Timestamp, error) {
	return ParseTimestampIn(s, time.Local)
}

// ParseTimestampIn reads s with zone-less datetimes taken in loc.
func ParseTimestampIn(s string, loc *time.Location) (Timestamp, error) {
	for _, l := range timestampLayouts {
		in := time.UTC
		if l.wallTime {
			in = loc
		}
		if t, err := time.ParseInLocation(l.layout, s, in); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("parse timestamp %q: unsupported layout", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Set reports whether t is present and non-zero.
func Set(t *Timestamp) bool {
	return t != nil && !t.IsZero()
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
