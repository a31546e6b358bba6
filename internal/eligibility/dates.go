package eligibility

import (
	"errors"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// DateField describes a three-part date input
type DateField struct {
	Key  string // Form key prefix, e.g. "visit-date" for visit-date-day/-month/-year
	Noun string // Farmer-facing name, e.g. "date of review"
}

func (f DateField) DayKey() string   { return f.Key + "-day" }
func (f DateField) MonthKey() string { return f.Key + "-month" }
func (f DateField) YearKey() string  { return f.Key + "-year" }

// FieldError is a form validation failure on one field
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// CheckDate validates a candidate date. Checks run in a fixed order and the first failure wins:
// real date, not before the agreement (same day allowed), not in the future.
func (r Rules) CheckDate(f DateField, day, month, year string, agreement calendar.Date) (calendar.Date, *FieldError) {
	d, err := calendar.ParseParts(day, month, year)
	if err != nil {
		return calendar.Date{}, f.partsError(day, month, year, err)
	}

	if !agreement.IsZero() && d.Before(agreement) {
		return calendar.Date{}, &FieldError{
			Field:   f.DayKey(),
			Message: "The " + f.Noun + " must be the same as or after the date of your agreement",
		}
	}

	if d.After(r.Today()) {
		return calendar.Date{}, &FieldError{
			Field:   f.DayKey(),
			Message: "The " + f.Noun + " must be today or in the past",
		}
	}

	return d, nil
}

func (f DateField) partsError(day, month, year string, err error) *FieldError {
	if day == "" && month == "" && year == "" {
		return &FieldError{Field: f.DayKey(), Message: "Enter the " + f.Noun}
	}

	switch {
	case errors.Is(err, calendar.ErrMissingDay):
		return &FieldError{Field: f.DayKey(), Message: "The " + f.Noun + " must include a day"}
	case errors.Is(err, calendar.ErrMissingMonth):
		return &FieldError{Field: f.MonthKey(), Message: "The " + f.Noun + " must include a month"}
	case errors.Is(err, calendar.ErrMissingYear):
		return &FieldError{Field: f.YearKey(), Message: "The " + f.Noun + " must include a year"}
	default:
		return &FieldError{Field: f.DayKey(), Message: "The " + f.Noun + " must be a real date"}
	}
}
