package model

import "github.com/ppiankov/claimcheck/internal/calendar"

// ClaimContext is the accumulated state of one in-progress claim.
// It is owned by the session; rule packages receive it by value and return
// a modified copy, they never hold on to it.
type ClaimContext struct {
	Reference    string       `json:"reference" yaml:"reference"` // Temporary claim reference used for event correlation
	Organisation Organisation `json:"organisation" yaml:"organisation"`

	TypeOfReview    TypeOfReview `json:"typeOfReview,omitempty" yaml:"typeOfReview,omitempty"`
	TypeOfLivestock Livestock    `json:"typeOfLivestock,omitempty" yaml:"typeOfLivestock,omitempty"`

	DateOfVisit   calendar.Date `json:"dateOfVisit" yaml:"dateOfVisit,omitempty"`
	DateOfTesting calendar.Date `json:"dateOfTesting" yaml:"dateOfTesting,omitempty"`

	ReviewTestResults          TestResult      `json:"reviewTestResults,omitempty" yaml:"reviewTestResults,omitempty"`
	VetVisitsReviewTestResults TestResult      `json:"vetVisitsReviewTestResults,omitempty" yaml:"vetVisitsReviewTestResults,omitempty"`
	RelevantReviewForEndemics  *RelevantReview `json:"relevantReviewForEndemics,omitempty" yaml:"relevantReviewForEndemics,omitempty"`

	// Fetched history, read-only for the rules
	PreviousClaims            []Claim      `json:"previousClaims,omitempty" yaml:"previousClaims,omitempty"`
	LatestEndemicsApplication *Application `json:"latestEndemicsApplication,omitempty" yaml:"latestEndemicsApplication,omitempty"`
	LatestVetVisitApplication *Application `json:"latestVetVisitApplication,omitempty" yaml:"latestVetVisitApplication,omitempty"`

	// Herd answers
	Herds           []Herd   `json:"herds,omitempty" yaml:"herds,omitempty"`
	TempHerdID      string   `json:"tempHerdId,omitempty" yaml:"tempHerdId,omitempty"`
	HerdID          string   `json:"herdId,omitempty" yaml:"herdId,omitempty"`
	HerdVersion     int      `json:"herdVersion,omitempty" yaml:"herdVersion,omitempty"`
	HerdName        string   `json:"herdName,omitempty" yaml:"herdName,omitempty"`
	HerdCPH         string   `json:"herdCph,omitempty" yaml:"herdCph,omitempty"`
	HerdReasons     []string `json:"herdReasons,omitempty" yaml:"herdReasons,omitempty"`
	HerdSame        YesNo    `json:"herdSame,omitempty" yaml:"herdSame,omitempty"`
	IsOnlyHerdOnSBI YesNo    `json:"isOnlyHerdOnSbi,omitempty" yaml:"isOnlyHerdOnSbi,omitempty"`

	// Remaining page answers
	SpeciesNumbers      YesNo      `json:"speciesNumbers,omitempty" yaml:"speciesNumbers,omitempty"`
	NumberAnimalsTested int        `json:"numberAnimalsTested,omitempty" yaml:"numberAnimalsTested,omitempty"`
	VetsName            string     `json:"vetsName,omitempty" yaml:"vetsName,omitempty"`
	VetRCVSNumber       string     `json:"vetRCVSNumber,omitempty" yaml:"vetRCVSNumber,omitempty"`
	PIHunt              YesNo      `json:"piHunt,omitempty" yaml:"piHunt,omitempty"`
	PIHuntRecommended   YesNo      `json:"piHuntRecommended,omitempty" yaml:"piHuntRecommended,omitempty"`
	PIHuntAllAnimals    YesNo      `json:"piHuntAllAnimals,omitempty" yaml:"piHuntAllAnimals,omitempty"`
	LaboratoryURN       string     `json:"laboratoryURN,omitempty" yaml:"laboratoryURN,omitempty"`
	TestResults         TestResult `json:"testResults,omitempty" yaml:"testResults,omitempty"`
	Biosecurity         YesNo      `json:"biosecurity,omitempty" yaml:"biosecurity,omitempty"`
	BiosecurityScore    int        `json:"biosecurityScore,omitempty" yaml:"biosecurityScore,omitempty"`
}

// RelevantReviewType tells whether the chained review is a new-world claim or an old-world agreement
type RelevantReviewType string

const (
	RelevantReviewClaim     RelevantReviewType = "REVIEW"
	RelevantReviewVetVisits RelevantReviewType = "VV"
)

// RelevantReview is the review a follow-up is chained to
type RelevantReview struct {
	Type            RelevantReviewType `json:"type" yaml:"type"`
	Reference       string             `json:"reference" yaml:"reference"`
	Status          Status             `json:"status" yaml:"status"`
	TypeOfLivestock Livestock          `json:"typeOfLivestock" yaml:"typeOfLivestock"`
	DateOfVisit     calendar.Date      `json:"dateOfVisit" yaml:"dateOfVisit"`
	TestResults     TestResult         `json:"testResults,omitempty" yaml:"testResults,omitempty"`
}

// IsOldWorld reports whether the chained review came from a legacy agreement
func (r *RelevantReview) IsOldWorld() bool {
	return r != nil && r.Type == RelevantReviewVetVisits
}

// Clone returns a copy whose slices and pointers can be modified without
// touching the receiver. PreviousClaims is shared: it is never written.
func (c ClaimContext) Clone() ClaimContext {
	out := c
	if c.RelevantReviewForEndemics != nil {
		rr := *c.RelevantReviewForEndemics
		out.RelevantReviewForEndemics = &rr
	}
	if c.HerdReasons != nil {
		out.HerdReasons = append([]string(nil), c.HerdReasons...)
	}
	if c.Herds != nil {
		out.Herds = append([]Herd(nil), c.Herds...)
	}
	return out
}

// AgreementCreatedOn is the creation day of the new-world agreement, zero if none is loaded
func (c ClaimContext) AgreementCreatedOn() calendar.Date {
	return c.LatestEndemicsApplication.CreatedOn()
}

// ClearFromSpecies resets everything that depends on the chosen species,
// including herd answers
func (c *ClaimContext) ClearFromSpecies() {
	c.TypeOfReview = ""
	c.VetVisitsReviewTestResults = ""
	c.Herds = nil
	c.ClearFromReviewType()
}

// ClearFromReviewType resets everything that depends on the claim kind
func (c *ClaimContext) ClearFromReviewType() {
	c.DateOfVisit = calendar.Date{}
	c.RelevantReviewForEndemics = nil
	c.ReviewTestResults = ""
	c.ClearHerd()
	c.ClearFromVisit()
}

// ClearHerd drops the herd the claim is attributed to
func (c *ClaimContext) ClearHerd() {
	c.HerdID = ""
	c.HerdVersion = 0
	c.HerdName = ""
	c.IsOnlyHerdOnSBI = ""
	c.ClearHerdDetails()
}

// ClearHerdDetails resets answers that belong to one herd selection
func (c *ClaimContext) ClearHerdDetails() {
	c.HerdCPH = ""
	c.HerdReasons = nil
	c.HerdSame = ""
}

// ClearFromVisit resets answers collected after the visit date
func (c *ClaimContext) ClearFromVisit() {
	c.DateOfTesting = calendar.Date{}
	c.SpeciesNumbers = ""
	c.NumberAnimalsTested = 0
	c.VetsName = ""
	c.VetRCVSNumber = ""
	c.ClearPIHunt()
	c.Biosecurity = ""
	c.BiosecurityScore = 0
}

// ClearPIHunt resets the PI hunt answers and the testing answers they gate
func (c *ClaimContext) ClearPIHunt() {
	c.PIHunt = ""
	c.PIHuntRecommended = ""
	c.PIHuntAllAnimals = ""
	c.DateOfTesting = calendar.Date{}
	c.LaboratoryURN = ""
	c.TestResults = ""
}
