package journey

import (
	"fmt"

	"github.com/ppiankov/claimcheck/internal/history"
	"github.com/ppiankov/claimcheck/internal/model"
)

// CodeNoReview blocks a follow-up when the farmer never claimed a review of the species
const CodeNoReview = "no-review"

func (n *Navigator) whichSpecies(req Request, cc model.ClaimContext) (Decision, error) {
	species := model.Livestock(formValue(req, FieldTypeOfLivestock))
	if !species.Valid() {
		return invalid(FieldTypeOfLivestock, "Select which species you are claiming for"), nil
	}

	if species != cc.TypeOfLivestock {
		cc.ClearFromSpecies()
		cc.TypeOfLivestock = species
	}
	return proceed(PageWhichTypeOfReview, cc), nil
}

func (n *Navigator) whichTypeOfReview(req Request, cc model.ClaimContext) (Decision, error) {
	kind := model.TypeOfReview(formValue(req, FieldTypeOfReview))
	if !kind.Valid() {
		return invalid(FieldTypeOfReview, "Select what you are claiming for"), nil
	}

	if kind != cc.TypeOfReview {
		cc.ClearFromReviewType()
		cc.TypeOfReview = kind
	}
	if kind == model.TypeReview {
		return proceed(PageDateOfVisit, cc), nil
	}

	species := cc.TypeOfLivestock
	h := history.FromContext(cc)
	if !h.HasAnyReviewForSpecies(species) {
		label := speciesLabel(species)
		return block(cc, EventIneligibility, Exception{
			Code:     CodeNoReview,
			Reason:   fmt.Sprintf("There must be a %s review before you can claim for a %s follow-up.", label, label),
			Guidance: "Claim for the review first.",
			View:     ViewSpeciesException,
		}, FieldTypeOfReview, string(kind)), nil
	}

	// A cattle follow-up chained to a legacy review asks for that review's result,
	// which the legacy agreement never recorded
	if species.IsCattle() {
		if latest := h.MostRecentReview(species, n.Rules.Today()); latest.IsOldWorld() {
			return proceed(PageVetVisitsReviewTestResults, cc), nil
		}
	}
	return proceed(PageDateOfVisit, cc), nil
}

func (n *Navigator) vetVisitsReviewTestResults(req Request, cc model.ClaimContext) (Decision, error) {
	result, ok := testResult(req, FieldVetVisitsReviewTestResults)
	if !ok {
		return invalid(FieldVetVisitsReviewTestResults, "Select a test result"), nil
	}
	cc.VetVisitsReviewTestResults = result
	return proceed(PageDateOfVisit, cc), nil
}
