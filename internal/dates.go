package internal

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidWindow = NewInvalidRangeError("invalid date window", ErrCodeInvalidWindow)

// Window is an inclusive range of calendar days in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalizes both bounds to UTC midnight and rejects start after end.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: DayOf(start), End: DayOf(end)}
	if w.Start.After(w.End) {
		return Window{}, ErrInvalidWindow.WithDetails(map[string]string{
			"start": w.Start.Format(DateLayout),
			"end":   w.End.Format(DateLayout),
		})
	}
	return w, nil
}

// ParseWindow parses two YYYY-MM-DD strings. Malformed input is reported as an invalid range.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Window{}, ErrInvalidWindow.WithCause(err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return Window{}, ErrInvalidWindow.WithCause(err)
	}
	return NewWindow(s, e)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := DayOf(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// EndExclusive is the first instant after the window, for half-open SQL predicates.
func (w Window) EndExclusive() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// DayOf truncates t to midnight of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
