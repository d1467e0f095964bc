package medication

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day or zone. The zero value means unset.
type Date struct {
	t time.Time
}

// NewDate for the given calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in its own location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	return Date{t: t}, nil
}

// MustParseDate panics on malformed input, meant for tests and constants
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(DateLayout)
}

// Weekday index, 0 is Sunday
func (d Date) Weekday() int {
	return int(d.t.Weekday())
}

// Before reports whether d is an earlier day than o
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// After reports whether d is a later day than o
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same day
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// AddDays moves the date n days, n may be negative
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// At combines the date with an HH:MM wall clock time in loc
func (d Date) At(clock string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), hour, minute, 0, 0, loc), nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or "" when unset
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if s == "" {
		*d = Date{}
		return nil
	}

	// older exports stored start dates as UTC ISO timestamps rendered from the
	// chosen calendar day, so the date part is that day and no zone shift applies
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// ClockLayout is the wire format for times of day
const ClockLayout = "15:04"

// ParseClock splits a zero padded 24h HH:MM string. "8:00" is rejected so
// every dose has exactly one spelling in the ledger.
func ParseClock(clock string) (hour int, minute int, err error) {
	if len(clock) != len(ClockLayout) || clock[2] != ':' {
		return 0, 0, fmt.Errorf("invalid time of day %q: want HH:MM", clock)
	}

	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}

	return t.Hour(), t.Minute(), nil
}

// NormalizeClock accepts H:MM or HH:MM and returns the zero padded HH:MM form
func NormalizeClock(clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	if len(clock) == len(ClockLayout)-1 {
		clock = "0" + clock
	}

	hour, minute, err := ParseClock(clock)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
