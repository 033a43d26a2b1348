package booking

import (
	"fmt"
	"time"
)

// DateLayout is the wire and invoice format of calendar dates.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date at UTC midnight. All range arithmetic
// works on values produced by Day so that day counting never depends on the
// wall clock or on DST transitions.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, s)
	}
	return t, nil
}

// Stay is a date range. Start is the check-in date and End the check-out date.
type Stay struct {
	Start time.Time
	End   time.Time
}

// NewStay normalises both endpoints to calendar dates.
func NewStay(start, end time.Time) Stay {
	return Stay{Start: Day(start), End: Day(end)}
}

// Valid reports whether the range is well formed (start strictly before end).
func (s Stay) Valid() bool {
	return Day(s.Start).Before(Day(s.End))
}

// Nights returns the number of nights between check-in and check-out.
// A same-day range has zero nights; an inverted range has no length.
func (s Stay) Nights() (int, error) {
	start, end := Day(s.Start), Day(s.End)
	if end.Before(start) {
		return 0, fmt.Errorf("%w: check-out %s is before check-in %s",
			ErrInvalidRange, end.Format(DateLayout), start.Format(DateLayout))
	}
	return int(end.Sub(start).Hours() / 24), nil
}

// LengthOfStay is a convenience wrapper around Stay.Nights.
func LengthOfStay(start, end time.Time) (int, error) {
	return NewStay(start, end).Nights()
}

func (s Stay) String() string {
	return Day(s.Start).Format(DateLayout) + ".." + Day(s.End).Format(DateLayout)
}
