package core

import (
	"errors"
	"strings"
	"time"
)

// Date is a timezone-naive calendar date, stored at midnight UTC.
type Date struct {
	time.Time
}

var ErrDateRequired = errors.New("is required")

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts the common date spellings an HTML date input or a
// spreadsheet export produce. Any time-of-day and zone are dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrDateRequired
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return Date{}, errors.New("is not a recognised date")
}

// String formats the date as YYYY-MM-DD; the zero date is empty.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// Before reports whether d is strictly earlier than e.
func (d Date) Before(e Date) bool { return d.Time.Before(e.Time) }
