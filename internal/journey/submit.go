package journey

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/herd"
	"github.com/ppiankov/claimcheck/internal/model"
)

// CreatedBy is recorded on every submission made through the journey
const CreatedBy = "admin"

func (n *Navigator) biosecurity(req Request, cc model.ClaimContext) (Decision, error) {
	answer, ok := yesNo(req, FieldBiosecurity)
	if !ok {
		return invalid(FieldBiosecurity, "Select whether the vet did a biosecurity assessment"), nil
	}
	cc.Biosecurity = answer
	cc.BiosecurityScore = 0

	if answer == model.No {
		return block(cc, EventInvalidData, Exception{
			Code:     CodeBiosecurityNotDone,
			Reason:   "You must do a biosecurity assessment to claim for a follow-up.",
			Guidance: "You cannot continue with your claim.",
			View:     ViewBiosecurityException,
		}, FieldBiosecurity, string(answer)), nil
	}

	if cc.TypeOfLivestock == model.LivestockPigs {
		if formValue(req, FieldAssessmentPercentage) == "" {
			return invalid(FieldAssessmentPercentage, "Enter the assessment percentage"), nil
		}
		score, ok := wholeNumber(req, FieldAssessmentPercentage)
		if !ok || score > 100 {
			return invalid(FieldAssessmentPercentage, "The assessment percentage must be a number between 1 and 100"), nil
		}
		cc.BiosecurityScore = score
	}
	return proceed(PageCheckAnswers, cc), nil
}

func (n *Navigator) checkAnswers(_ Request, cc model.ClaimContext) (Decision, error) {
	if _, err := BuildSubmission(cc); err != nil {
		return Decision{}, err
	}
	return proceed(PageConfirmation, cc), nil
}

// BuildSubmission assembles the claim payload from a completed journey
func BuildSubmission(cc model.ClaimContext) (model.Submission, error) {
	if cc.LatestEndemicsApplication == nil {
		return model.Submission{}, ErrMissingAgreement
	}

	var missing []string
	require := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}
	require(cc.TypeOfReview.Valid(), "typeOfReview")
	require(cc.TypeOfLivestock.Valid(), "typeOfLivestock")
	require(!cc.DateOfVisit.IsZero(), "dateOfVisit")
	require(cc.SpeciesNumbers == model.Yes, "speciesNumbers")
	require(cc.VetsName != "", "vetsName")
	require(cc.VetRCVSNumber != "", "vetRCVSNumber")

	skippedTesting := cc.PIHunt == model.No || cc.PIHuntRecommended == model.No
	if !skippedTesting {
		require(!cc.DateOfTesting.IsZero(), "dateOfTesting")
		require(cc.LaboratoryURN != "", "laboratoryURN")
		require(cc.TestResults.Valid(), "testResults")
	}
	if cc.TypeOfReview == model.TypeFollowUp {
		require(cc.RelevantReviewForEndemics != nil, "relevantReviewForEndemics")
		require(cc.Biosecurity == model.Yes, "biosecurity")
	}
	if cc.TypeOfReview == model.TypeFollowUp && cc.TypeOfLivestock.IsCattle() {
		require(cc.PIHunt.Valid(), "piHunt")
	}
	if len(missing) > 0 {
		return model.Submission{}, fmt.Errorf("%w: missing %s", ErrIncompleteClaim, strings.Join(missing, ", "))
	}

	data := model.SubmissionData{
		Reference:           cc.Reference,
		TypeOfLivestock:     cc.TypeOfLivestock,
		DateOfVisit:         cc.DateOfVisit,
		DateOfTesting:       cc.DateOfTesting,
		SpeciesNumbers:      cc.SpeciesNumbers,
		NumberAnimalsTested: cc.NumberAnimalsTested,
		VetsName:            cc.VetsName,
		VetRCVSNumber:       cc.VetRCVSNumber,
		LaboratoryURN:       cc.LaboratoryURN,
		TestResults:         cc.TestResults,
		PIHunt:              cc.PIHunt,
		PIHuntRecommended:   cc.PIHuntRecommended,
		PIHuntAllAnimals:    cc.PIHuntAllAnimals,
	}

	if cc.TypeOfReview == model.TypeFollowUp {
		data.ReviewTestResults = cc.ReviewTestResults
		data.Biosecurity = &model.Biosecurity{Biosecurity: cc.Biosecurity, Assessment: cc.BiosecurityScore}
	}

	if cc.HerdID != "" {
		data.Herd = &model.SubmissionHerd{
			HerdID:      cc.HerdID,
			HerdVersion: cc.HerdVersion,
			HerdName:    cc.HerdName,
			CPH:         cc.HerdCPH,
			HerdReasons: append([]string(nil), cc.HerdReasons...),
			HerdSame:    cc.HerdSame,
		}
		if herd.IsNew(cc) {
			data.Herd.HerdVersion = 1
		}
	}

	return model.Submission{
		ApplicationReference: cc.LatestEndemicsApplication.Reference,
		Type:                 cc.TypeOfReview,
		CreatedBy:            CreatedBy,
		Data:                 data,
	}, nil
}
