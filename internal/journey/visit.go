package journey

import (
	"fmt"
	"slices"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/herd"
	"github.com/ppiankov/claimcheck/internal/history"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Codes of the go-live gate exceptions
const (
	CodeMultipleSpeciesNotLive = "multiple-species-not-live"
	CodeDairyFollowUpNotLive   = "dairy-follow-up-not-live"
)

// Session keys reported with date exceptions
const (
	keyDateOfVisit   = "dateOfVisit"
	keyDateOfTesting = "dateOfTesting"
)

func visitField(kind model.TypeOfReview) eligibility.DateField {
	return eligibility.DateField{Key: "visit-date", Noun: "date of " + kind.Noun()}
}

var testingField = eligibility.DateField{Key: "testing-date", Noun: "date of testing"}

func (n *Navigator) readDate(req Request, f eligibility.DateField, cc model.ClaimContext) (calendar.Date, *eligibility.FieldError) {
	return n.Rules.CheckDate(f,
		req.Form[f.DayKey()], req.Form[f.MonthKey()], req.Form[f.YearKey()],
		cc.AgreementCreatedOn())
}

func (n *Navigator) dateOfVisit(req Request, cc model.ClaimContext) (Decision, error) {
	if cc.AgreementCreatedOn().IsZero() {
		return Decision{}, ErrMissingAgreement
	}

	visit, ferr := n.readDate(req, visitField(cc.TypeOfReview), cc)
	if ferr != nil {
		return invalidField(ferr), nil
	}
	if !visit.Equal(cc.DateOfVisit) {
		cc.RelevantReviewForEndemics = nil
		cc.ReviewTestResults = ""
		// Sampling is checked against the chained review, which may now differ
		if cc.TypeOfReview == model.TypeFollowUp {
			cc.DateOfTesting = calendar.Date{}
		}
	}
	cc.DateOfVisit = visit
	if !n.Gates.IsMultiHerds(visit) {
		cc.ClearHerd()
	}

	species := cc.TypeOfLivestock
	h := history.FromContext(cc)

	if h.HasOtherSpecies(species) && !n.Gates.IsMultiSpecies(visit) {
		return block(cc, EventIneligibility, Exception{
			Code:     CodeMultipleSpeciesNotLive,
			Reason:   fmt.Sprintf("User is attempting to claim for %s with a date of visit of %s which is before multiple species was enabled.", species, visit),
			Guidance: fmt.Sprintf("You can only claim for one species for a visit before %s.", n.Gates.MultiSpecies.ReleaseDate),
			View:     ViewDateException,
		}, keyDateOfVisit, visit.String()), nil
	}

	if cc.TypeOfReview == model.TypeFollowUp && species == model.LivestockDairy && !n.Gates.IsDairyFollowUp(visit) {
		return block(cc, EventIneligibility, Exception{
			Code:     CodeDairyFollowUpNotLive,
			Reason:   fmt.Sprintf("User is attempting to claim for dairy follow-up with a date of visit of %s which is before dairy follow-ups was enabled.", visit),
			Guidance: fmt.Sprintf("You can only claim for a dairy follow-up that happened on or after %s.", n.Gates.DairyFollowUp.ReleaseDate),
			View:     ViewDateException,
		}, keyDateOfVisit, visit.String()), nil
	}

	// Once herds are tracked the timing rules only make sense for the chosen
	// herd, so they run when herd resolution completes
	if n.Gates.IsMultiHerds(visit) {
		return n.startHerds(cc), nil
	}
	return n.checkTiming(cc, h)
}

// checkTiming applies the spacing rules to the visit and resolves the review a follow-up is chained to
func (n *Navigator) checkTiming(cc model.ClaimContext, h history.History) (Decision, error) {
	visit := cc.DateOfVisit
	switch cc.TypeOfReview {
	case model.TypeReview:
		if inel := n.Rules.CheckReviewTiming(h, cc.TypeOfLivestock, visit); inel != nil {
			return ineligible(cc, inel, ViewDateException, keyDateOfVisit, visit.String()), nil
		}
	case model.TypeFollowUp:
		rr, inel, err := n.Rules.CheckFollowUpTiming(h, cc.TypeOfLivestock, visit)
		if err != nil {
			return Decision{}, err
		}
		if inel != nil {
			return ineligible(cc, inel, ViewDateException, keyDateOfVisit, visit.String()), nil
		}
		cc.RelevantReviewForEndemics = rr
		cc.ReviewTestResults = reviewResults(cc, rr)
	}
	return proceed(n.afterVisit(cc), cc), nil
}

// reviewResults is the test result of the chained review. A legacy review
// takes the result the farmer entered for it.
func reviewResults(cc model.ClaimContext, rr *model.RelevantReview) model.TestResult {
	if rr.IsOldWorld() {
		return cc.VetVisitsReviewTestResults
	}
	return rr.TestResults
}

// startHerds routes to the first herd page. A single registered herd the farmer
// has said is the only one on the SBI is attributed straight away and shown for checking.
func (n *Navigator) startHerds(cc model.ClaimContext) Decision {
	candidates := herd.Candidates(cc)
	if herd.Resolve(cc) == herd.PathCreate {
		herd.StartNew(&cc)
		return proceed(PageEnterHerdName, cc)
	}
	if len(candidates) == 1 && slices.Contains(candidates[0].Reasons, model.ReasonOnlyHerd) {
		herd.Select(&cc, candidates[0])
		return proceed(PageCheckHerdDetails, cc)
	}
	return proceed(PageSelectTheHerd, cc)
}
