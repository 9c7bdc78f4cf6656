package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire form for all timestamps in the public API.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a time.Time that marshals to JSON as "yyyy-MM-dd HH:mm:ss"
// and scans from Postgres timestamp columns.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to second precision, matching the wire layout.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.Truncate(time.Second)}
}

// ParseDateTime parses s in the API wire layout.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return DateTime{t}, nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parse datetime %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// Value implements driver.Valuer so repositories can bind DateTime directly.
func (d DateTime) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case nil:
		d.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}
