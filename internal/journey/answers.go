package journey

import (
	"fmt"
	"strings"

	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Codes of data exceptions
const (
	CodeSpeciesNumbers      = "species-numbers"
	CodeTooFewAnimalsTested = "too-few-animals-tested"
	CodePIHuntRequired      = "pi-hunt-required"
	CodePIHuntNotAllAnimals = "pi-hunt-not-all-animals"
	CodeURNNotUnique        = "urn-not-unique"
	CodeBiosecurityNotDone  = "biosecurity-not-done"
)

func (n *Navigator) dateOfTesting(req Request, cc model.ClaimContext) (Decision, error) {
	if cc.AgreementCreatedOn().IsZero() {
		return Decision{}, ErrMissingAgreement
	}

	sampled, ferr := n.readDate(req, testingField, cc)
	if ferr != nil {
		return invalidField(ferr), nil
	}
	cc.DateOfTesting = sampled

	if cc.TypeOfReview == model.TypeFollowUp {
		if cc.RelevantReviewForEndemics == nil {
			return Decision{}, ErrNoRelevantReview
		}
		if inel := eligibility.CheckTestingAfterReview(cc.RelevantReviewForEndemics, sampled); inel != nil {
			return ineligible(cc, inel, ViewTestingException, keyDateOfTesting, sampled.String()), nil
		}
	}

	if n.inPIHuntFlow(cc) {
		return proceed(PageTestURN, cc), nil
	}
	return proceed(PageSpeciesNumbers, cc), nil
}

func (n *Navigator) speciesNumbers(req Request, cc model.ClaimContext) (Decision, error) {
	label := speciesLabel(cc.TypeOfLivestock)
	noun := cc.TypeOfReview.Noun()

	answer, ok := yesNo(req, FieldSpeciesNumbers)
	if !ok {
		return invalid(FieldSpeciesNumbers, fmt.Sprintf("Select if you had the minimum number of %s on the date of the %s", label, noun)), nil
	}
	cc.SpeciesNumbers = answer

	if answer == model.No {
		return block(cc, EventInvalidData, Exception{
			Code:     CodeSpeciesNumbers,
			Reason:   fmt.Sprintf("The minimum number of %s was not on the farm on the date of the %s so you cannot continue with your claim.", label, noun),
			Guidance: "You cannot continue with your claim.",
			View:     ViewNumbersException,
		}, FieldSpeciesNumbers, string(answer)), nil
	}

	if minimumTested(cc.TypeOfReview, cc.TypeOfLivestock) > 0 {
		return proceed(PageNumberOfSpeciesTested, cc), nil
	}
	return proceed(PageVetName, cc), nil
}

func (n *Navigator) numberOfSpeciesTested(req Request, cc model.ClaimContext) (Decision, error) {
	minimum := minimumTested(cc.TypeOfReview, cc.TypeOfLivestock)
	if minimum == 0 {
		return Decision{}, ErrOutOfSequence
	}

	raw := formValue(req, FieldNumberAnimalsTested)
	if raw == "" {
		return invalid(FieldNumberAnimalsTested, "Enter the number of animals tested"), nil
	}
	tested, ok := wholeNumber(req, FieldNumberAnimalsTested)
	if !ok {
		return invalid(FieldNumberAnimalsTested, "The number of animals tested must be a whole number greater than 0"), nil
	}
	cc.NumberAnimalsTested = tested

	if tested < minimum {
		return block(cc, EventInvalidData, Exception{
			Code:     CodeTooFewAnimalsTested,
			Reason:   fmt.Sprintf("At least %d %s must be tested for a %s, %d were tested.", minimum, speciesLabel(cc.TypeOfLivestock), cc.TypeOfReview.Noun(), tested),
			Guidance: "You cannot continue with your claim.",
			View:     ViewTestedException,
		}, FieldNumberAnimalsTested, raw), nil
	}
	return proceed(PageVetName, cc), nil
}

func (n *Navigator) vetName(req Request, cc model.ClaimContext) (Decision, error) {
	name := formValue(req, FieldVetsName)
	switch {
	case name == "":
		return invalid(FieldVetsName, "Enter the vet's name"), nil
	case len(name) > maxVetNameLength:
		return invalid(FieldVetsName, fmt.Sprintf("Vet's name must be %d characters or fewer", maxVetNameLength)), nil
	case !vetNameRegex.MatchString(name):
		return invalid(FieldVetsName, "Vet's name must only include letters a to z, numbers and special characters such as hyphens, spaces, apostrophes, ampersands, commas, brackets or a forward slash"), nil
	}
	cc.VetsName = name
	return proceed(PageVetRCVS, cc), nil
}

func (n *Navigator) vetRCVS(req Request, cc model.ClaimContext) (Decision, error) {
	rcvs := strings.ToUpper(formValue(req, FieldVetRCVSNumber))
	switch {
	case rcvs == "":
		return invalid(FieldVetRCVSNumber, "Enter the RCVS number"), nil
	case !rcvsRegex.MatchString(rcvs):
		return invalid(FieldVetRCVSNumber, "RCVS number is a 7 digit number or a 6 digit number ending in a letter"), nil
	}
	cc.VetRCVSNumber = rcvs

	if isCattleFollowUp(cc) {
		return proceed(PagePIHunt, cc), nil
	}
	return proceed(PageTestURN, cc), nil
}

func (n *Navigator) testURN(req Request, cc model.ClaimContext) (Decision, error) {
	urn := formValue(req, FieldLaboratoryURN)
	switch {
	case urn == "":
		return invalid(FieldLaboratoryURN, "Enter the URN"), nil
	case len(urn) > maxURNLength:
		return invalid(FieldLaboratoryURN, fmt.Sprintf("URN must be %d characters or fewer", maxURNLength)), nil
	case !urnRegex.MatchString(urn):
		return invalid(FieldLaboratoryURN, "URN must only include letters a to z, numbers and a hyphen"), nil
	}

	if req.URNUnique == nil {
		return Decision{}, ErrMissingURNCheck
	}
	cc.LaboratoryURN = urn

	if !*req.URNUnique {
		reason := "This test result unique reference number (URN) or certificate number was used in a previous claim."
		if cc.TypeOfReview == model.TypeFollowUp {
			reason = "This test result unique reference number (URN) was used in a previous claim."
		}
		return block(cc, EventInvalidData, Exception{
			Code:     CodeURNNotUnique,
			Reason:   reason,
			Guidance: fmt.Sprintf("Check the URN from the laboratory results of your %s %s.", speciesLabel(cc.TypeOfLivestock), cc.TypeOfReview.Noun()),
			View:     ViewURNException,
		}, FieldLaboratoryURN, urn), nil
	}
	return proceed(PageTestResults, cc), nil
}

func (n *Navigator) testResults(req Request, cc model.ClaimContext) (Decision, error) {
	result, ok := testResult(req, FieldTestResults)
	if !ok {
		return invalid(FieldTestResults, "Select a test result"), nil
	}
	cc.TestResults = result

	if cc.TypeOfReview == model.TypeFollowUp {
		return proceed(PageBiosecurity, cc), nil
	}
	return proceed(PageCheckAnswers, cc), nil
}
