package journey

import (
	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/model"
)

func (n *Navigator) piHunt(req Request, cc model.ClaimContext) (Decision, error) {
	answer, ok := yesNo(req, FieldPIHunt)
	if !ok {
		return invalid(FieldPIHunt, "Select if the vet did a PI hunt"), nil
	}

	if answer == model.Yes {
		cc.PIHunt = model.Yes
		switch {
		case !n.inPIHuntFlow(cc):
			// Testing was already collected before the vet pages
			return proceed(PageTestURN, cc), nil
		case cc.ReviewTestResults == model.TestPositive:
			cc.PIHuntRecommended = ""
			return proceed(PagePIHuntAllAnimals, cc), nil
		default:
			return proceed(PagePIHuntRecommended, cc), nil
		}
	}

	// Skipping the PI hunt is only allowed after a negative review once it became optional
	if n.inPIHuntFlow(cc) && cc.ReviewTestResults == model.TestNegative {
		cc.ClearPIHunt()
		cc.PIHunt = model.No
		return proceed(PageBiosecurity, cc), nil
	}
	return n.piHuntRequired(cc), nil
}

// piHuntRequired blocks a follow-up without a PI hunt. After a new-world review
// the PI answers are discarded; after a legacy review they are kept.
func (n *Navigator) piHuntRequired(cc model.ClaimContext) Decision {
	reason := "You must do a PI hunt to claim for this follow-up."
	if cc.RelevantReviewForEndemics.IsOldWorld() {
		cc.PIHunt = model.No
		reason = "You must do a PI hunt to claim for a follow-up after your vet visits review."
	} else {
		cc.ClearPIHunt()
	}

	return block(cc, EventInvalidData, Exception{
		Code:     CodePIHuntRequired,
		Reason:   reason,
		Guidance: "You cannot continue with your claim.",
		View:     ViewPIHuntException,
	}, FieldPIHunt, string(model.No))
}

func (n *Navigator) piHuntRecommended(req Request, cc model.ClaimContext) (Decision, error) {
	answer, ok := yesNo(req, FieldPIHuntRecommended)
	if !ok {
		return invalid(FieldPIHuntRecommended, "Select if the vet recommended the PI hunt"), nil
	}
	cc.PIHuntRecommended = answer

	if answer == model.Yes {
		return proceed(PagePIHuntAllAnimals, cc), nil
	}
	cc.PIHuntAllAnimals = ""
	clearTesting(&cc)
	return proceed(PageBiosecurity, cc), nil
}

func (n *Navigator) piHuntAllAnimals(req Request, cc model.ClaimContext) (Decision, error) {
	noun := cc.TypeOfLivestock.GroupNoun()
	answer, ok := yesNo(req, FieldPIHuntAllAnimals)
	if !ok {
		return invalid(FieldPIHuntAllAnimals, "Select if the PI hunt was done on all cattle in the "+noun), nil
	}
	cc.PIHuntAllAnimals = answer

	if answer == model.No {
		return block(cc, EventInvalidData, Exception{
			Code:     CodePIHuntNotAllAnimals,
			Reason:   "The PI hunt must be done on all cattle in the " + noun + " to claim for this follow-up.",
			Guidance: "You cannot continue with your claim.",
			View:     ViewPIHuntException,
		}, FieldPIHuntAllAnimals, string(answer)), nil
	}
	return proceed(PageDateOfTesting, cc), nil
}

// clearTesting drops the sampling answers of a PI hunt that was not carried out
func clearTesting(cc *model.ClaimContext) {
	cc.DateOfTesting = calendar.Date{}
	cc.LaboratoryURN = ""
	cc.TestResults = ""
}
