// Package window implements inclusive calendar-day date windows and the
// record filters built on them. Every instant is compared in UTC.
package window

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Window is an inclusive [From, To] day range. A zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

// Open matches every record, including ones without a date.
var Open = Window{}

// Parse builds a Window from ISO dates; an empty string leaves that bound open.
func Parse(from, to string) (Window, error) {
	var w Window
	var err error
	if w.From, err = parseBound(from); err != nil {
		return Window{}, fmt.Errorf("parse from: %w", err)
	}
	if w.To, err = parseBound(to); err != nil {
		return Window{}, fmt.Errorf("parse to: %w", err)
	}
	return w, nil
}

func parseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func (w Window) IsOpen() bool { return w.From.IsZero() && w.To.IsZero() }

// Contains reports whether t is inside the window. A zero t only matches the
// open window.
func (w Window) Contains(t time.Time) bool {
	if w.IsOpen() {
		return true
	}
	if t.IsZero() {
		return false
	}
	if !w.From.IsZero() && t.Before(StartOfDay(w.From)) {
		return false
	}
	if !w.To.IsZero() && t.After(EndOfDay(w.To)) {
		return false
	}
	return true
}

func (w Window) String() string {
	return format(w.From) + ".." + format(w.To)
}

// FromString and ToString render the bounds as ISO dates, empty when open.
func (w Window) FromString() string { return format(w.From) }
func (w Window) ToString() string   { return format(w.To) }

func format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same UTC calendar date. Zero
// values never match.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return StartOfDay(a).Equal(StartOfDay(b))
}

// Days returns the window covering the UTC days of from..to.
func Days(from, to time.Time) Window {
	return Window{From: StartOfDay(from), To: StartOfDay(to)}
}
