// Package pipeline hosts the claim journey. It owns every side effect around
// the navigator: loading and saving the session, fetching history and herds,
// checking URNs, dispatching events and submitting finished claims.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/claimcheck/internal/journey"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/notify"
	"github.com/ppiankov/claimcheck/internal/session"
)

// ErrNoAgreement means the organisation has no new-world agreement to claim against
var ErrNoAgreement = errors.New("no endemics agreement")

// Backend is the applications and claims API
type Backend interface {
	GetApplicationsBySBI(ctx context.Context, sbi string) ([]model.Application, error)
	GetClaimsByApplicationReference(ctx context.Context, reference string) ([]model.Claim, error)
	GetHerds(ctx context.Context, reference string, species model.Livestock) ([]model.Herd, error)
	IsURNUnique(ctx context.Context, sbi, urn string) (bool, error)
	SubmitClaim(ctx context.Context, s model.Submission) (*model.SubmittedClaim, error)
}

// Pipeline runs page submissions for many concurrent sessions. Each session
// must have at most one submission in flight.
type Pipeline struct {
	navigator *journey.Navigator
	backend   Backend
	sessions  *session.Store
	notifier  notify.Notifier
	logger    *slog.Logger
	newID     func() string
}

// New creates a pipeline
func New(nav *journey.Navigator, backend Backend, sessions *session.Store, notifier notify.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		navigator: nav,
		backend:   backend,
		sessions:  sessions,
		notifier:  notifier,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// Result is the outcome of one page submission
type Result struct {
	journey.Decision `yaml:",inline"`
	Submitted        *model.SubmittedClaim `json:"submitted,omitempty" yaml:"submitted,omitempty"`
}

// StartClaim begins a claim for org and returns its session key
func (p *Pipeline) StartClaim(ctx context.Context, org model.Organisation) (string, model.ClaimContext, error) {
	apps, err := p.backend.GetApplicationsBySBI(ctx, org.SBI)
	if err != nil {
		return "", model.ClaimContext{}, fmt.Errorf("start claim: %w", err)
	}

	endemics := latestApplication(apps, model.ApplicationEndemics)
	if endemics == nil {
		return "", model.ClaimContext{}, fmt.Errorf("start claim for %s: %w", org.SBI, ErrNoAgreement)
	}

	claims, err := p.backend.GetClaimsByApplicationReference(ctx, endemics.Reference)
	if err != nil {
		return "", model.ClaimContext{}, fmt.Errorf("start claim: %w", err)
	}

	cc := model.ClaimContext{
		Reference:                 TempReference(p.newID()),
		Organisation:              org,
		PreviousClaims:            claims,
		LatestEndemicsApplication: endemics,
		LatestVetVisitApplication: latestApplication(apps, model.ApplicationVetVisits),
		TempHerdID:                p.newID(),
	}

	key := session.NewKey()
	if err := p.sessions.Save(key, cc); err != nil {
		return "", model.ClaimContext{}, fmt.Errorf("start claim: %w", err)
	}

	p.logger.Info("claim started",
		"sbi", org.SBI,
		"agreement", endemics.Reference,
		"reference", cc.Reference,
		"previous_claims", len(claims),
	)
	return key, cc, nil
}

// Submit evaluates one page submission for the session
func (p *Pipeline) Submit(ctx context.Context, key string, req journey.Request) (Result, error) {
	cc, err := p.sessions.Load(key)
	if err != nil {
		return Result{}, err
	}

	if err := p.lookup(ctx, &req, &cc); err != nil {
		return Result{}, fmt.Errorf("%s: %w", req.Page, err)
	}

	d, err := p.navigator.Next(req, cc)
	if err != nil {
		return Result{}, err
	}

	p.dispatch(ctx, key, d.Effects)

	if d.Outcome == journey.OutcomeInvalid {
		return Result{Decision: d}, nil
	}

	if d.NextPage == journey.PageConfirmation {
		return p.finish(ctx, key, d)
	}

	if err := p.sessions.Save(key, d.Context); err != nil {
		return Result{}, err
	}
	return Result{Decision: d}, nil
}

// Back returns the back link target for a page of the session's claim
func (p *Pipeline) Back(key string, page journey.Page, fromCheckAnswers bool) (journey.Page, error) {
	cc, err := p.sessions.Load(key)
	if err != nil {
		return "", err
	}
	return p.navigator.BackLink(page, cc, fromCheckAnswers), nil
}

// lookup fetches what the navigator needs from the backend before it decides
func (p *Pipeline) lookup(ctx context.Context, req *journey.Request, cc *model.ClaimContext) error {
	switch req.Page {
	case journey.PageDateOfVisit:
		if cc.Herds != nil || cc.TypeOfLivestock == "" || cc.LatestEndemicsApplication == nil {
			return nil
		}
		herds, err := p.backend.GetHerds(ctx, cc.LatestEndemicsApplication.Reference, cc.TypeOfLivestock)
		if err != nil {
			return err
		}
		cc.Herds = herds

	case journey.PageTestURN:
		if req.URNUnique != nil || !journey.URNWellFormed(req.Form) {
			return nil
		}
		unique, err := p.backend.IsURNUnique(ctx, cc.Organisation.SBI, strings.TrimSpace(req.Form[journey.FieldLaboratoryURN]))
		if err != nil {
			return err
		}
		req.URNUnique = &unique
	}
	return nil
}

// dispatch sends each effect once. Delivery failures are logged, never returned.
func (p *Pipeline) dispatch(ctx context.Context, key string, effects []journey.Effect) {
	for _, e := range effects {
		var err error
		switch e.Kind {
		case journey.EventIneligibility:
			err = p.notifier.SendIneligibilityEvent(ctx, notify.IneligibilityEvent{
				SBI:       e.SBI,
				CRN:       e.CRN,
				Reference: e.Reference,
				Page:      string(e.Page),
				Code:      e.Code,
				Exception: e.Reason,
			})
		case journey.EventInvalidData:
			err = p.notifier.SendInvalidDataEvent(ctx, notify.InvalidDataEvent{
				SessionKey: e.Field,
				Reference:  e.Reference,
				Page:       string(e.Page),
				Code:       e.Code,
				Exception:  e.Reason,
				Field:      e.Field,
				Value:      e.Value,
			})
		default:
			err = fmt.Errorf("unknown event kind %q", e.Kind)
		}
		if err != nil {
			p.logger.Warn("event not delivered",
				"session", key,
				"kind", e.Kind,
				"code", e.Code,
				"reference", e.Reference,
				"error", err,
			)
		}
	}
}

func (p *Pipeline) finish(ctx context.Context, key string, d journey.Decision) (Result, error) {
	submission, err := journey.BuildSubmission(d.Context)
	if err != nil {
		return Result{}, err
	}

	submitted, err := p.backend.SubmitClaim(ctx, submission)
	if err != nil {
		// Keep the answers so the farmer can retry from check-answers
		if saveErr := p.sessions.Save(key, d.Context); saveErr != nil {
			p.logger.Warn("session not saved", "session", key, "error", saveErr)
		}
		return Result{}, err
	}

	if err := p.sessions.Clear(key); err != nil {
		p.logger.Warn("session not cleared", "session", key, "error", err)
	}
	return Result{Decision: d, Submitted: submitted}, nil
}

// latestApplication picks the most recently created application of a type
func latestApplication(apps []model.Application, t model.ApplicationType) *model.Application {
	var matching []model.Application
	for _, a := range apps {
		if a.Type == t {
			matching = append(matching, a)
		}
	}
	if len(matching) == 0 {
		return nil
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})
	latest := matching[0]
	return &latest
}

// TempReference derives a temporary claim reference, TEMP-CLAIM-XXXX-XXXX,
// from a random identifier
func TempReference(id string) string {
	hex := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	for len(hex) < 8 {
		hex += "0"
	}
	return "TEMP-CLAIM-" + hex[:4] + "-" + hex[4:8]
}
