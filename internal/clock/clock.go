// Package clock provides the time source for eligibility rules.
//
// Rule packages must not call time.Now directly: "today" is a rule input,
// so it is injected. Production wiring uses NewReal; tests use NewFixed.
package clock

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// RealClock returns the system time
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns T
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// NewReal returns a Clock backed by the system time
func NewReal() Clock {
	return RealClock{}
}

// NewFixed returns a Clock that always returns t
func NewFixed(t time.Time) Clock {
	return FixedClock{T: t}
}

// NewFixedDate returns a Clock pinned to midday on the given day
func NewFixedDate(d calendar.Date) Clock {
	return FixedClock{T: d.Time().Add(12 * time.Hour)}
}

// Today returns the calendar day of c.Now() in the clock's location
func Today(c Clock) calendar.Date {
	return calendar.FromTime(c.Now())
}
