package journey

import (
	"net/http"

	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Outcome classifies a navigation decision
type Outcome string

const (
	OutcomeContinue  Outcome = "CONTINUE"  // Answer accepted, go to NextPage
	OutcomeException Outcome = "EXCEPTION" // Answer well formed but the claim is blocked
	OutcomeInvalid   Outcome = "INVALID"   // Answer malformed, re-render the page with field errors
)

// Request is one page submission
type Request struct {
	Page Page              `json:"page" yaml:"page"`
	Form map[string]string `json:"form,omitempty" yaml:"form,omitempty"`

	// URNUnique is the result of the backend uniqueness lookup for a well-formed
	// laboratory URN. The host fills it before asking for the test-urn decision.
	URNUnique *bool `json:"urnUnique,omitempty" yaml:"urnUnique,omitempty"`
}

// Decision is the navigator's answer for one submission
type Decision struct {
	Outcome     Outcome                  `json:"outcome" yaml:"outcome"`
	Page        Page                     `json:"page" yaml:"page"`
	NextPage    Page                     `json:"nextPage,omitempty" yaml:"nextPage,omitempty"`
	Exception   *Exception               `json:"exception,omitempty" yaml:"exception,omitempty"`
	FieldErrors []eligibility.FieldError `json:"fieldErrors,omitempty" yaml:"fieldErrors,omitempty"`
	Effects     []Effect                 `json:"effects,omitempty" yaml:"effects,omitempty"`

	// Context is the claim context to commit to the session. For INVALID it is
	// the unchanged input; for EXCEPTION it holds the raw answer but none of its consequences.
	Context model.ClaimContext `json:"-" yaml:"-"`
}

// HTTPStatus is the status the page handler responds with
func (d Decision) HTTPStatus() int {
	if d.Outcome == OutcomeContinue {
		return http.StatusFound
	}
	return http.StatusBadRequest
}

// Exception explains why a claim cannot continue
type Exception struct {
	Code     string `json:"code" yaml:"code"`
	Reason   string `json:"reason" yaml:"reason"`
	Guidance string `json:"guidance,omitempty" yaml:"guidance,omitempty"`
	View     string `json:"view" yaml:"view"`
}

// Exception views rendered by the page handler
const (
	ViewDateException        = "date-of-visit-exception"
	ViewTestingException     = "date-of-testing-exception"
	ViewSpeciesException     = "which-type-of-review-exception"
	ViewHerdException        = "herd-exception"
	ViewNumbersException     = "species-numbers-exception"
	ViewTestedException      = "number-of-species-tested-exception"
	ViewPIHuntException      = "pi-hunt-exception"
	ViewURNException         = "test-urn-exception"
	ViewBiosecurityException = "biosecurity-exception"
)

// EventKind selects the notifier call for an effect
type EventKind string

const (
	EventIneligibility EventKind = "ineligibility"
	EventInvalidData   EventKind = "invalid-data"
)

// Effect is a side effect for the host to execute after the decision
type Effect struct {
	Kind      EventKind `json:"kind" yaml:"kind"`
	Page      Page      `json:"page" yaml:"page"`
	Code      string    `json:"code" yaml:"code"`
	Reason    string    `json:"reason" yaml:"reason"`
	Reference string    `json:"reference" yaml:"reference"`
	SBI       string    `json:"sbi,omitempty" yaml:"sbi,omitempty"`
	CRN       string    `json:"crn,omitempty" yaml:"crn,omitempty"`
	Field     string    `json:"field,omitempty" yaml:"field,omitempty"` // Session key of the offending answer
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
}
