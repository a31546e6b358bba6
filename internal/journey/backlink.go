package journey

import (
	"github.com/ppiankov/claimcheck/internal/herd"
	"github.com/ppiankov/claimcheck/internal/model"
)

// BackLink returns the page the back link of page points to. A page reached
// to change an answer from check-answers always goes back there.
func (n *Navigator) BackLink(page Page, cc model.ClaimContext, fromCheckAnswers bool) Page {
	if fromCheckAnswers && page != PageCheckAnswers {
		return PageCheckAnswers
	}

	switch page {
	case PageWhichTypeOfReview:
		return PageWhichSpecies
	case PageVetVisitsReviewTestResults:
		return PageWhichTypeOfReview
	case PageDateOfVisit:
		if cc.VetVisitsReviewTestResults != "" && isCattleFollowUp(cc) {
			return PageVetVisitsReviewTestResults
		}
		return PageWhichTypeOfReview

	case PageSelectTheHerd:
		return PageDateOfVisit
	case PageEnterHerdName:
		if herd.Resolve(cc) == herd.PathSelect {
			return PageSelectTheHerd
		}
		return PageDateOfVisit
	case PageEnterCPHNumber:
		return PageEnterHerdName
	case PageHerdOthersOnSBI:
		return PageEnterCPHNumber
	case PageEnterHerdDetails:
		if herd.Resolve(cc) == herd.PathCreate {
			return PageHerdOthersOnSBI
		}
		return PageEnterCPHNumber
	case PageCheckHerdDetails:
		switch {
		case !herd.IsNew(cc):
			return PageSelectTheHerd
		case cc.IsOnlyHerdOnSBI == model.Yes:
			return PageHerdOthersOnSBI
		default:
			return PageEnterHerdDetails
		}
	case PageSameHerd:
		return PageCheckHerdDetails

	case PageDateOfTesting:
		if n.inPIHuntFlow(cc) {
			return PagePIHuntAllAnimals
		}
		return n.lastVisitPage(cc)
	case PageSpeciesNumbers:
		if n.inPIHuntFlow(cc) {
			return n.lastVisitPage(cc)
		}
		return PageDateOfTesting
	case PageNumberOfSpeciesTested:
		return PageSpeciesNumbers
	case PageVetName:
		if minimumTested(cc.TypeOfReview, cc.TypeOfLivestock) > 0 {
			return PageNumberOfSpeciesTested
		}
		return PageSpeciesNumbers
	case PageVetRCVS:
		return PageVetName
	case PagePIHunt:
		return PageVetRCVS
	case PagePIHuntRecommended:
		return PagePIHunt
	case PagePIHuntAllAnimals:
		if cc.ReviewTestResults == model.TestNegative {
			return PagePIHuntRecommended
		}
		return PagePIHunt
	case PageTestURN:
		switch {
		case n.inPIHuntFlow(cc):
			return PageDateOfTesting
		case isCattleFollowUp(cc):
			return PagePIHunt
		default:
			return PageVetRCVS
		}
	case PageTestResults:
		return PageTestURN
	case PageBiosecurity:
		switch {
		case cc.PIHunt == model.No:
			return PagePIHunt
		case cc.PIHuntRecommended == model.No:
			return PagePIHuntRecommended
		default:
			return PageTestResults
		}
	case PageCheckAnswers:
		if cc.TypeOfReview == model.TypeFollowUp {
			return PageBiosecurity
		}
		return PageTestResults
	}
	return ""
}

// lastVisitPage is the last page of the visit date and herd section
func (n *Navigator) lastVisitPage(cc model.ClaimContext) Page {
	if !n.Gates.IsMultiHerds(cc.DateOfVisit) {
		return PageDateOfVisit
	}
	if cc.HerdSame != "" {
		return PageSameHerd
	}
	return PageCheckHerdDetails
}
