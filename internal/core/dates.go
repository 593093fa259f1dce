package core

import (
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	MonthLayout     = "2006-01"
	TimestampLayout = "2006-01-02T15:04:05-0700"
)

// Clock supplies the current instant. Budgets are evaluated against the
// month of Now() in the clock's location.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a wall clock reporting times in loc (UTC when nil).
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// DateWindow is an inclusive range of YYYY-MM-DD dates. An empty bound is open.
type DateWindow struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// DefaultWindow spans from the first day of now's month through now.
func DefaultWindow(now time.Time) DateWindow {
	return DateWindow{
		Start: now.Format("2006-01") + "-01",
		End:   now.Format(DateLayout),
	}
}

// MonthPrefix returns the YYYY-MM prefix matching dates in now's month.
func MonthPrefix(now time.Time) string {
	return now.Format(MonthLayout)
}

// MonthWindow returns a window covering every well-formed date starting
// with prefix. The upper bound is lexicographic and need not be a real day.
func MonthWindow(prefix string) DateWindow {
	return DateWindow{Start: prefix + "-01", End: prefix + "-31"}
}

// Contains compares dates as strings, which is correct for well-formed dates.
func (w DateWindow) Contains(date string) bool {
	if w.Start != "" && date < w.Start {
		return false
	}
	if w.End != "" && date > w.End {
		return false
	}
	return true
}

func (w DateWindow) Validate() error {
	if w.Start != "" {
		if err := ValidateDate(w.Start); err != nil {
			return invalid("startDate", err)
		}
	}
	if w.End != "" {
		if err := ValidateDate(w.End); err != nil {
			return invalid("endDate", err)
		}
	}
	if w.Start != "" && w.End != "" && w.Start > w.End {
		return invalid("endDate", fmt.Errorf("%s is before %s", w.End, w.Start))
	}
	return nil
}

// ValidateDate checks the YYYY-MM-DD form.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ValidateMonthPrefix checks the YYYY-MM form.
func ValidateMonthPrefix(s string) error {
	if _, err := time.Parse(MonthLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}
