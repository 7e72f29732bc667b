// Package astro provides time scales, coordinate transformations and
// visibility math for night-sky observation.
package astro

import (
	"errors"
	"fmt"
	"time"
)

// Formatting layouts used across the module.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02T15:04Z07:00"
)

// HomeZone is the display zone the application defaults to.
const HomeZone = "Europe/Oslo"

// ErrUnknownZone is returned when a zone name cannot be resolved.
var ErrUnknownZone = errors.New("unknown time zone")

// ParseError reports a timestamp that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse timestamp %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Accepted offset-qualified layouts, most precise first.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04Z07",
}

// ParseUTC parses an offset-qualified ISO-8601 timestamp and returns the
// same instant in UTC.
func ParseUTC(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &ParseError{Input: s, Err: firstErr}
}

// Now returns the current instant.
func Now() time.Time {
	return time.Now()
}

// HoursBetween returns the whole hours from b to a, truncated toward zero.
func HoursBetween(a, b time.Time) int {
	return int(a.Sub(b) / time.Hour)
}

// WithZone returns the same instant displayed in the named zone.
func WithZone(t time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrUnknownZone, zone)
	}
	return t.In(loc), nil
}

// InOslo returns t in the home zone, or t unchanged when the zone
// database is unavailable.
func InOslo(t time.Time) time.Time {
	local, err := WithZone(t, HomeZone)
	if err != nil {
		return t
	}
	return local
}

const secondsPerDay = 24 * 60 * 60

// absoluteDay returns the UTC day number counted from 1970-01-01.
func absoluteDay(t time.Time) int {
	secs := t.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		day--
	}
	return int(day)
}

// NightIndex identifies the night an instant belongs to. A night runs from
// 12:00 UTC to 12:00 UTC the following day and is numbered after the day
// it ends on, so instants in the same window share an index and later
// windows always have larger indices.
func NightIndex(t time.Time) int {
	u := t.UTC()
	hours := absoluteDay(u)*24 + u.Hour() + 12
	n := hours / 24
	if hours%24 < 0 {
		n--
	}
	return n
}

// NightStart returns the first instant of the night numbered n.
func NightStart(n int) time.Time {
	return time.Unix(int64(n-1)*secondsPerDay+12*60*60, 0).UTC()
}

// DateString formats the calendar date of t in its own zone.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeOfDay formats the wall-clock time of t as HH:MM.
func TimeOfDay(t time.Time) string {
	return t.Format(TimeLayout)
}

// DateAndTime formats t with its offset, or as Zulu time when asZulu is set.
func DateAndTime(t time.Time, asZulu bool) string {
	if asZulu {
		t = t.UTC()
	}
	return t.Format(DateTimeLayout)
}

// HoursIntoDay returns the wall-clock hour of t.
func HoursIntoDay(t time.Time) int {
	return t.Hour()
}

// PlusDays shifts t by n calendar days in its own zone.
func PlusDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WithHour returns t on the same calendar day with the given wall-clock
// hour and minute, and zero seconds.
func WithHour(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}
