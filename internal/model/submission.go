package model

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// Submission is the payload sent to the claims backend when a claim is finalised
type Submission struct {
	ApplicationReference string         `json:"applicationReference"`
	Type                 TypeOfReview   `json:"type"`
	CreatedBy            string         `json:"createdBy"`
	Data                 SubmissionData `json:"data"`
}

// SubmissionData carries the answers of the claim being submitted
type SubmissionData struct {
	Reference           string          `json:"reference"`
	TypeOfLivestock     Livestock       `json:"typeOfLivestock"`
	DateOfVisit         calendar.Date   `json:"dateOfVisit"`
	DateOfTesting       calendar.Date   `json:"dateOfTesting"`
	SpeciesNumbers      YesNo           `json:"speciesNumbers"`
	NumberAnimalsTested int             `json:"numberAnimalsTested,omitempty"`
	VetsName            string          `json:"vetsName"`
	VetRCVSNumber       string          `json:"vetRCVSNumber"`
	LaboratoryURN       string          `json:"laboratoryURN,omitempty"`
	TestResults         TestResult      `json:"testResults,omitempty"`
	PIHunt              YesNo           `json:"piHunt,omitempty"`
	PIHuntRecommended   YesNo           `json:"piHuntRecommended,omitempty"`
	PIHuntAllAnimals    YesNo           `json:"piHuntAllAnimals,omitempty"`
	ReviewTestResults   TestResult      `json:"reviewTestResults,omitempty"`
	Biosecurity         *Biosecurity    `json:"biosecurity,omitempty"`
	Herd                *SubmissionHerd `json:"herd,omitempty"`
}

// Biosecurity is the follow-up biosecurity answer
type Biosecurity struct {
	Biosecurity YesNo `json:"biosecurity"`
	Assessment  int   `json:"assessmentPercentage,omitempty"`
}

// SubmissionHerd attributes the claim to a herd. A herd the backend does not know yet
// is created from these details under the temporary id.
type SubmissionHerd struct {
	HerdID      string   `json:"herdId"`
	HerdVersion int      `json:"herdVersion"`
	HerdName    string   `json:"herdName"`
	CPH         string   `json:"cph"`
	HerdReasons []string `json:"herdReasons"`
	HerdSame    YesNo    `json:"herdSame,omitempty"`
}

// SubmittedClaim is the backend's acknowledgement of a submission
type SubmittedClaim struct {
	Reference string    `json:"reference"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
