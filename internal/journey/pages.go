package journey

// Page identifies a form page by its route
type Page string

const (
	PageWhichSpecies               Page = "which-species"
	PageWhichTypeOfReview          Page = "which-type-of-review"
	PageVetVisitsReviewTestResults Page = "vet-visits-review-test-results"
	PageDateOfVisit                Page = "date-of-visit"
	PageSelectTheHerd              Page = "select-the-herd"
	PageEnterHerdName              Page = "enter-herd-name"
	PageEnterCPHNumber             Page = "enter-cph-number"
	PageHerdOthersOnSBI            Page = "herd-others-on-sbi"
	PageEnterHerdDetails           Page = "enter-herd-details"
	PageCheckHerdDetails           Page = "check-herd-details"
	PageSameHerd                   Page = "same-herd"
	PageDateOfTesting              Page = "date-of-testing"
	PageSpeciesNumbers             Page = "species-numbers"
	PageNumberOfSpeciesTested      Page = "number-of-species-tested"
	PageVetName                    Page = "vet-name"
	PageVetRCVS                    Page = "vet-rcvs"
	PagePIHunt                     Page = "pi-hunt"
	PagePIHuntRecommended          Page = "pi-hunt-recommended"
	PagePIHuntAllAnimals           Page = "pi-hunt-all-animals"
	PageTestURN                    Page = "test-urn"
	PageTestResults                Page = "test-results"
	PageBiosecurity                Page = "biosecurity"
	PageCheckAnswers               Page = "check-answers"
	PageConfirmation               Page = "confirmation"
)

// Form keys posted by each page
const (
	FieldTypeOfLivestock            = "typeOfLivestock"
	FieldTypeOfReview               = "typeOfReview"
	FieldVetVisitsReviewTestResults = "vetVisitsReviewTestResults"
	FieldHerdSelected               = "herdSelected"
	FieldHerdName                   = "herdName"
	FieldHerdCPH                    = "herdCph"
	FieldIsOnlyHerdOnSBI            = "isOnlyHerdOnSbi"
	FieldHerdReasons                = "herdReasons" // Comma separated
	FieldHerdSame                   = "herdSame"
	FieldSpeciesNumbers             = "speciesNumbers"
	FieldNumberAnimalsTested        = "numberAnimalsTested"
	FieldVetsName                   = "vetsName"
	FieldVetRCVSNumber              = "vetRCVSNumber"
	FieldPIHunt                     = "piHunt"
	FieldPIHuntRecommended          = "piHuntRecommended"
	FieldPIHuntAllAnimals           = "piHuntAllAnimals"
	FieldLaboratoryURN              = "laboratoryURN"
	FieldTestResults                = "testResults"
	FieldBiosecurity                = "biosecurity"
	FieldAssessmentPercentage       = "assessmentPercentage"

	// NewHerdOption is the select-the-herd value for "a herd not listed"
	NewHerdOption = "new"
)

// Pages lists every page in journey order
var Pages = []Page{
	PageWhichSpecies,
	PageWhichTypeOfReview,
	PageVetVisitsReviewTestResults,
	PageDateOfVisit,
	PageSelectTheHerd,
	PageEnterHerdName,
	PageEnterCPHNumber,
	PageHerdOthersOnSBI,
	PageEnterHerdDetails,
	PageCheckHerdDetails,
	PageSameHerd,
	PageDateOfTesting,
	PageSpeciesNumbers,
	PageNumberOfSpeciesTested,
	PageVetName,
	PageVetRCVS,
	PagePIHunt,
	PagePIHuntRecommended,
	PagePIHuntAllAnimals,
	PageTestURN,
	PageTestResults,
	PageBiosecurity,
	PageCheckAnswers,
}

// Known reports whether p is a page the navigator handles
func (p Page) Known() bool {
	for _, known := range Pages {
		if known == p {
			return true
		}
	}
	return false
}
