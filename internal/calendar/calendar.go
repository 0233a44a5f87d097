// Package calendar converts between timestamps and calendar days in a fixed
// location.
package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the ISO date format used for day keys.
const KeyLayout = "2006-01-02"

// Calendar resolves calendar days in one location.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc. A nil loc means UTC.
func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the calendar's location.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// StartOfDay returns local midnight of the day containing t.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location())
}

// Bounds returns [start, end) of the day containing t.
// AddDate keeps DST days at their real length.
func (c Calendar) Bounds(t time.Time) (time.Time, time.Time) {
	start := c.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// Key returns the ISO date of the day containing t.
func (c Calendar) Key(t time.Time) string {
	return t.In(c.Location()).Format(KeyLayout)
}

// Parse parses an ISO date into local midnight of that day.
func (c Calendar) Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.Key(a) == c.Key(b)
}

// DaysBetween counts calendar days from start to end, inclusive of both.
// It is zero or negative when end is before start.
func (c Calendar) DaysBetween(start, end time.Time) int {
	s, e := c.StartOfDay(start), c.StartOfDay(end)
	days := 0
	if !e.Before(s) {
		for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
			days++
		}
		return days
	}
	for d := e; d.Before(s); d = d.AddDate(0, 0, 1) {
		days--
	}
	return days
}

// LoggedAt resolves the logical consumption time for an entry logged at now
// for the given day. Same-day logs keep the real timestamp so intra-day order
// is preserved; backdated (or future-dated) logs are pinned to midday so a
// timezone shift cannot move them across a day boundary.
func (c Calendar) LoggedAt(day, now time.Time) time.Time {
	if c.SameDay(day, now) {
		return now
	}
	return c.StartOfDay(day).Add(12 * time.Hour)
}
