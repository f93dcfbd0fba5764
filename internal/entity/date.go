package entity

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time component. The zero value means
// "not present" and serializes to an empty string.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the calendar triple (no Feb 30) and returns the date.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < 1900 || year > 2200 {
		return Date{}, fmt.Errorf("year out of range: %d", year)
	}
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("month out of range: %d", int(month))
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid calendar date: %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the date at midnight UTC, matching DATE semantics.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String serializes as DD/MM/YYYY; the zero value is the empty string.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// ParseDate accepts DD/MM/YYYY and DD-MM-YYYY.
func ParseDate(s string) (Date, error) {
	var day, month, year int
	if _, err := fmt.Sscanf(s, "%2d/%2d/%4d", &day, &month, &year); err != nil {
		if _, err := fmt.Sscanf(s, "%2d-%2d-%4d", &day, &month, &year); err != nil {
			return Date{}, fmt.Errorf("unrecognized date %q", s)
		}
	}
	return NewDate(year, time.Month(month), day)
}
