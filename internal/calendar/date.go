package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the wire format for dates (ISO 8601 calendar day)
const Layout = "2006-01-02"

var (
	ErrMissingDay   = errors.New("missing day")
	ErrMissingMonth = errors.New("missing month")
	ErrMissingYear  = errors.New("missing year")
	ErrNotRealDate  = errors.New("not a real date")
)

// Date is a calendar day with no time-of-day and no timezone.
// The zero value means "not set".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date, normalising out-of-range values the way time.Date does
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse parses a YYYY-MM-DD string. Full timestamps are accepted and truncated to their day.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, ErrNotRealDate)
	}
	return FromTime(t), nil
}

// MustParse is Parse for constants and tests
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseParts builds a Date from the three separately entered form fields.
// Missing parts are reported before impossible values.
func ParseParts(day, month, year string) (Date, error) {
	day, month, year = strings.TrimSpace(day), strings.TrimSpace(month), strings.TrimSpace(year)

	switch {
	case day == "":
		return Date{}, ErrMissingDay
	case month == "":
		return Date{}, ErrMissingMonth
	case year == "":
		return Date{}, ErrMissingYear
	}

	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return Date{}, ErrNotRealDate
	}
	if y < 1000 || y > 9999 || m < 1 || m > 12 || d < 1 {
		return Date{}, ErrNotRealDate
	}

	// time.Date normalises 31 February to March; a round trip exposes it
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != m || t.Year() != y {
		return Date{}, ErrNotRealDate
	}

	return Date{Year: y, Month: time.Month(m), Day: d}, nil
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// Compare returns -1, 0 or +1
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// AddMonths adds n months using Go's calendar normalisation,
// so 31 January plus one month is 3 March (2 March in leap years).
func (d Date) AddMonths(n int) Date {
	return FromTime(d.Time().AddDate(0, n, 0))
}

// WithinMonths reports whether a and b are less than n months apart.
// Dates exactly n months apart are not within the window.
func WithinMonths(a, b Date, n int) bool {
	earlier, later := a, b
	if later.Before(earlier) {
		earlier, later = later, earlier
	}
	return later.Before(earlier.AddMonths(n))
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
