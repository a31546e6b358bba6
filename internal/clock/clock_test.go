package clock

import (
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

func TestToday(t *testing.T) {
	c := NewFixed(time.Date(2025, time.March, 4, 23, 59, 0, 0, time.UTC))
	if got := Today(c); got.String() != "2025-03-04" {
		t.Errorf("expected 2025-03-04, got %s", got)
	}
}

func TestNewFixedDate(t *testing.T) {
	d := calendar.MustParse("2025-01-21")
	if got := Today(NewFixedDate(d)); !got.Equal(d) {
		t.Errorf("expected %s, got %s", d, got)
	}
}
