// Package timex contains the calendar-date codec shared by the client packages.
//
// The backend exchanges expiration dates as ISO "YYYY-MM-DD" (sometimes as a
// full RFC3339 timestamp), while people type and read them as "DD-MM-YYYY".
// Date is the single place both representations are converted.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ISOLayout is the wire format used by the backend.
	ISOLayout = "2006-01-02"
	// DisplayLayout is the day-month-year format shown to and typed by users.
	DisplayLayout = "02-01-2006"
)

var ErrInvalidDate = errors.New("invalid date")

// isoFallbacks are accepted on input only; output is always ISOLayout.
var isoFallbacks = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Date is a calendar date without a time component. The zero value means
// "no date".
type Date struct {
	t time.Time
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseISO parses "YYYY-MM-DD" or an RFC3339 timestamp. An empty string
// yields the zero Date and no error.
func ParseISO(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(ISOLayout, s); err == nil {
		return DateOf(t), nil
	}
	for _, layout := range isoFallbacks {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseDisplay parses "DD-MM-YYYY". An empty string yields the zero Date.
func ParseDisplay(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// DisplayToISO converts "DD-MM-YYYY" to "YYYY-MM-DD".
func DisplayToISO(s string) (string, error) {
	d, err := ParseDisplay(s)
	if err != nil {
		return "", err
	}
	return d.ISO(), nil
}

// ISOToDisplay converts "YYYY-MM-DD" to "DD-MM-YYYY".
func ISOToDisplay(s string) (string, error) {
	d, err := ParseISO(s)
	if err != nil {
		return "", err
	}
	return d.Display(), nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayLayout)
}

func (d Date) String() string { return d.ISO() }

// Compare returns -1, 0 or +1. Zero dates compare as the earliest value.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.ISO())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseISO(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
