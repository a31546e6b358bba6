package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/clock"
	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/golive"
	"github.com/ppiankov/claimcheck/internal/journey"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Scenario is one recorded page submission: a claim context, the answers
// submitted on a page and the day they were submitted
type Scenario struct {
	Name    string             `yaml:"name,omitempty"`
	Today   calendar.Date      `yaml:"today"`
	Context model.ClaimContext `yaml:"context"`
	Request journey.Request    `yaml:",inline"`
	Expect  *Expectation       `yaml:"expect,omitempty"`
}

// Expectation is the decision a scenario should produce. Empty fields are not checked.
type Expectation struct {
	Outcome  journey.Outcome `yaml:"outcome,omitempty"`
	NextPage journey.Page    `yaml:"nextPage,omitempty"`
	Code     string          `yaml:"code,omitempty"`
	Reason   string          `yaml:"reason,omitempty"`
}

// Verdict is the result of evaluating a scenario
type Verdict struct {
	Name     string           `json:"name" yaml:"name"`
	Decision journey.Decision `json:"decision" yaml:"decision"`
	Failures []string         `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Passed reports whether the decision met every expectation
func (v Verdict) Passed() bool {
	return len(v.Failures) == 0
}

// LoadScenario reads a scenario from a YAML file
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	if s.Today.IsZero() {
		return Scenario{}, fmt.Errorf("scenario %s: today is required", path)
	}
	if !s.Request.Page.Known() {
		return Scenario{}, fmt.Errorf("scenario %s: %w: %q", path, journey.ErrUnknownPage, s.Request.Page)
	}
	return s, nil
}

// Evaluator runs scenarios offline against a fixed configuration. URN
// uniqueness comes from the scenario; nothing is fetched or sent.
type Evaluator struct {
	Gates         golive.Gates
	SpacingMonths int
}

// NewEvaluator creates an evaluator from cfg
func NewEvaluator(cfg *model.Config) *Evaluator {
	return &Evaluator{
		Gates:         golive.FromConfig(cfg.Features),
		SpacingMonths: cfg.Rules.SpacingMonths,
	}
}

// Evaluate runs the scenario's page submission as of its own day
func (e *Evaluator) Evaluate(s Scenario) (Verdict, error) {
	nav := journey.New(e.Gates, eligibility.NewRules(clock.NewFixedDate(s.Today), e.SpacingMonths))

	d, err := nav.Next(s.Request, s.Context)
	if err != nil {
		return Verdict{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return Verdict{
		Name:     s.Name,
		Decision: d,
		Failures: s.Expect.check(d),
	}, nil
}

func (x *Expectation) check(d journey.Decision) []string {
	if x == nil {
		return nil
	}

	var failures []string
	if x.Outcome != "" && x.Outcome != d.Outcome {
		failures = append(failures, fmt.Sprintf("outcome: expected %s, got %s", x.Outcome, d.Outcome))
	}
	if x.NextPage != "" && x.NextPage != d.NextPage {
		failures = append(failures, fmt.Sprintf("next page: expected %s, got %s", x.NextPage, d.NextPage))
	}

	var code, reason string
	if d.Exception != nil {
		code, reason = d.Exception.Code, d.Exception.Reason
	}
	if x.Code != "" && x.Code != code {
		failures = append(failures, fmt.Sprintf("code: expected %s, got %q", x.Code, code))
	}
	if x.Reason != "" && x.Reason != reason {
		failures = append(failures, fmt.Sprintf("reason: expected %q, got %q", x.Reason, reason))
	}
	return failures
}
