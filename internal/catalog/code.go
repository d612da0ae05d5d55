// Package catalog models the subject/commission catalog entities: the
// two-field subject Code, Subject, Commission and their weekly meeting
// schedules, plus the commission-deduplication optimization pass.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Code is a subject identifier of the form "HH.LL", ordered and hashed as a
// pair of bytes.
type Code struct {
	High uint8
	Low  uint8
}

// ParseCode parses "HH.LL"; both fields accept 1 or 2 digits on input.
func ParseCode(s string) (Code, error) {
	high, low, ok := strings.Cut(s, ".")
	if !ok {
		return Code{}, fmt.Errorf("catalog: code %q is missing '.'", s)
	}
	h, err := strconv.ParseUint(high, 10, 8)
	if err != nil {
		return Code{}, fmt.Errorf("catalog: invalid code %q: %w", s, err)
	}
	l, err := strconv.ParseUint(low, 10, 8)
	if err != nil {
		return Code{}, fmt.Errorf("catalog: invalid code %q: %w", s, err)
	}
	return Code{High: uint8(h), Low: uint8(l)}, nil
}

// String renders "HH.LL", zero-padded on both fields.
func (c Code) String() string {
	return fmt.Sprintf("%02d.%02d", c.High, c.Low)
}

// Less orders codes lexicographically by (High, Low).
func (c Code) Less(other Code) bool {
	if c.High != other.High {
		return c.High < other.High
	}
	return c.Low < other.Low
}
