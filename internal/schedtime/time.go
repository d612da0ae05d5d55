// Package schedtime models a single instant within a day and the half-open
// span between two instants, independent of any calendar date.
package schedtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Time is an hour/minute pair within a single day. The only permitted value
// with Hour == 24 is {24, 0}, representing the end of the day for a Span.
type Time struct {
	Hour   uint8
	Minute uint8
}

// New validates and constructs a Time. It returns an InvariantViolation-class
// error if hour/minute are out of range.
func New(hour, minute uint8) (Time, error) {
	if minute >= 60 {
		return Time{}, fmt.Errorf("schedtime: minute %d out of range", minute)
	}
	if hour > 24 || (hour == 24 && minute != 0) {
		return Time{}, fmt.Errorf("schedtime: hour %d out of range", hour)
	}
	return Time{Hour: hour, Minute: minute}, nil
}

// MustNew is New but panics on error; intended for literal construction in
// tests and trusted call sites.
func MustNew(hour, minute uint8) Time {
	t, err := New(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse reads "HH:MM"; zero-padding is optional on input.
func Parse(s string) (Time, error) {
	hourStr, minuteStr, ok := strings.Cut(s, ":")
	if !ok {
		return Time{}, fmt.Errorf("schedtime: %q is missing ':'", s)
	}
	hour, err := strconv.ParseUint(hourStr, 10, 8)
	if err != nil {
		return Time{}, fmt.Errorf("schedtime: invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.ParseUint(minuteStr, 10, 8)
	if err != nil {
		return Time{}, fmt.Errorf("schedtime: invalid minute in %q: %w", s, err)
	}
	return New(uint8(hour), uint8(minute))
}

// String renders "HH:MM", zero-padded.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t sorts strictly before other.
func (t Time) Before(other Time) bool {
	return t.Hour < other.Hour || (t.Hour == other.Hour && t.Minute < other.Minute)
}

// Compare returns -1, 0 or 1 following the usual ordering convention.
func (t Time) Compare(other Time) int {
	switch {
	case t.Before(other):
		return -1
	case other.Before(t):
		return 1
	default:
		return 0
	}
}

// Sub returns the whole number of minutes between t and other (t - other).
func (t Time) Sub(other Time) int {
	return (int(t.Hour)*60 + int(t.Minute)) - (int(other.Hour)*60 + int(other.Minute))
}
