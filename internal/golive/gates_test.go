package golive

import (
	"testing"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

func TestIsLive(t *testing.T) {
	release := calendar.MustParse("2025-01-21")

	tests := []struct {
		candidate string
		want      bool
	}{
		{"2025-01-20", false},
		{"2025-01-21", true},
		{"2025-06-01", true},
	}

	for _, tt := range tests {
		if got := IsLive(calendar.MustParse(tt.candidate), release); got != tt.want {
			t.Errorf("IsLive(%s) = %v, expected %v", tt.candidate, got, tt.want)
		}
	}
}

func TestGate_Live(t *testing.T) {
	g := Gate{Enabled: true, ReleaseDate: calendar.MustParse("2025-05-01")}

	if g.Live(calendar.Date{}) {
		t.Error("expected zero date never to pass a gate")
	}
	if !g.Live(calendar.MustParse("2025-05-01")) {
		t.Error("expected release day to be live")
	}

	g.Enabled = false
	if g.Live(calendar.MustParse("2026-01-01")) {
		t.Error("expected disabled gate never to be live")
	}
}

func TestDefault_DairyFollowUp(t *testing.T) {
	g := Default()

	if g.IsDairyFollowUp(calendar.MustParse("2025-01-20")) {
		t.Error("expected dairy follow-ups to be unavailable on 2025-01-20")
	}
	if !g.IsDairyFollowUp(calendar.MustParse("2025-01-21")) {
		t.Error("expected dairy follow-ups to be available on 2025-01-21")
	}
}

func TestDescribe(t *testing.T) {
	statuses := Default().Describe(calendar.MustParse("2025-03-01"))
	if len(statuses) != 4 {
		t.Fatalf("expected 4 gates, got %d", len(statuses))
	}

	want := map[Feature]bool{
		MultiSpecies:   true,
		MultiHerds:     false,
		DairyFollowUp:  true,
		OptionalPIHunt: true,
	}
	for _, s := range statuses {
		if s.Live != want[s.Feature] {
			t.Errorf("%s: expected live=%v, got %v", s.Feature, want[s.Feature], s.Live)
		}
	}
}
