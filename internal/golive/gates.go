// Package golive decides which rule variant applies to a claim from fixed feature release dates.
//
// Gates are judged against the claim's own date, never against the evaluation time,
// so a historical claim is always judged by the rules in force on its date.
package golive

import (
	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Feature names a gated feature
type Feature string

const (
	MultiSpecies   Feature = "multi-species"
	MultiHerds     Feature = "multi-herds"
	DairyFollowUp  Feature = "dairy-follow-up"
	OptionalPIHunt Feature = "optional-pi-hunt"
)

// IsLive reports whether candidate is on or after release
func IsLive(candidate, release calendar.Date) bool {
	return !candidate.Before(release)
}

// Gate is one feature switch
type Gate struct {
	Enabled     bool
	ReleaseDate calendar.Date
}

// Live reports whether the feature applies to a claim dated d.
// A zero date never passes a gate.
func (g Gate) Live(d calendar.Date) bool {
	if !g.Enabled || d.IsZero() {
		return false
	}
	return IsLive(d, g.ReleaseDate)
}

// Gates holds every feature switch
type Gates struct {
	MultiSpecies   Gate
	MultiHerds     Gate
	DairyFollowUp  Gate
	OptionalPIHunt Gate
}

// FromConfig builds gates from the features section of the config
func FromConfig(cfg model.FeatureConfig) Gates {
	return Gates{
		MultiSpecies:   Gate(cfg.MultiSpecies),
		MultiHerds:     Gate(cfg.MultiHerds),
		DairyFollowUp:  Gate(cfg.DairyFollowUp),
		OptionalPIHunt: Gate(cfg.OptionalPIHunt),
	}
}

// Default returns the gates of model.DefaultConfig
func Default() Gates {
	return FromConfig(model.DefaultConfig().Features)
}

func (g Gates) IsMultiSpecies(d calendar.Date) bool   { return g.MultiSpecies.Live(d) }
func (g Gates) IsMultiHerds(d calendar.Date) bool     { return g.MultiHerds.Live(d) }
func (g Gates) IsDairyFollowUp(d calendar.Date) bool  { return g.DairyFollowUp.Live(d) }
func (g Gates) IsOptionalPIHunt(d calendar.Date) bool { return g.OptionalPIHunt.Live(d) }

// Status is the state of one gate for a given date
type Status struct {
	Feature     Feature       `json:"feature" yaml:"feature"`
	Enabled     bool          `json:"enabled" yaml:"enabled"`
	ReleaseDate calendar.Date `json:"release_date" yaml:"release_date"`
	Live        bool          `json:"live" yaml:"live"`
}

// Describe reports every gate for d, in a stable order
func (g Gates) Describe(d calendar.Date) []Status {
	gates := []struct {
		feature Feature
		gate    Gate
	}{
		{MultiSpecies, g.MultiSpecies},
		{MultiHerds, g.MultiHerds},
		{DairyFollowUp, g.DairyFollowUp},
		{OptionalPIHunt, g.OptionalPIHunt},
	}

	out := make([]Status, 0, len(gates))
	for _, entry := range gates {
		out = append(out, Status{
			Feature:     entry.feature,
			Enabled:     entry.gate.Enabled,
			ReleaseDate: entry.gate.ReleaseDate,
			Live:        entry.gate.Live(d),
		})
	}
	return out
}
