package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

const layout = "2006-01-02"

const day = 24 * time.Hour

// Date is a calendar day without a time of day or location.
// The zero value means "not set".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given components. Components that do not form an
// existing day (Feb 30, month 13) are rejected instead of normalised.
func NewDate(year int, month time.Month, dayOfMonth int) (Date, error) {
	t := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != dayOfMonth {
		return Date{}, fmt.Errorf("%04d-%02d-%02d: %w", year, month, dayOfMonth, ErrInvalidDate)
	}

	return Date{Year: year, Month: month, Day: dayOfMonth}, nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	year, month, dayOfMonth := t.Date()

	return Date{Year: year, Month: month, Day: dayOfMonth}
}

// Parse accepts "YYYY-MM-DD" and RFC 3339 timestamps. The time of day is dropped.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}

	if t, err := time.Parse(layout, s); err == nil {
		return DateOf(t), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse %q: %w", s, ErrInvalidDate)
	}

	return DateOf(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.Time().Format(layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}

		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Nights returns the number of nights between start and end, rounded up and never negative.
func Nights(start, end Date) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	nights := int(math.Ceil(float64(end.Time().Sub(start.Time())) / float64(day)))
	if nights < 0 {
		return 0
	}

	return nights
}
