package model

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// ApplicationType separates the two agreement schemes
type ApplicationType string

const (
	ApplicationEndemics  ApplicationType = "EE" // New-world endemics agreement
	ApplicationVetVisits ApplicationType = "VV" // Old-world (legacy) vet visits agreement
)

// Application is a farmer's agreement as returned by the applications backend
type Application struct {
	Reference string          `json:"reference" yaml:"reference"`
	Type      ApplicationType `json:"type" yaml:"type"`
	Status    Status          `json:"status" yaml:"status"`
	CreatedAt time.Time       `json:"createdAt" yaml:"createdAt"`
	Data      ApplicationData `json:"data" yaml:"data"`
}

// ApplicationData holds agreement answers. For old-world agreements the agreement
// itself carried a single review: WhichReview is its species and VisitDate its visit.
type ApplicationData struct {
	WhichReview Livestock     `json:"whichReview,omitempty" yaml:"whichReview,omitempty"`
	VisitDate   calendar.Date `json:"visitDate" yaml:"visitDate,omitempty"`
}

// CreatedOn is the agreement's creation day
func (a *Application) CreatedOn() calendar.Date {
	if a == nil {
		return calendar.Date{}
	}
	return calendar.FromTime(a.CreatedAt)
}

// Organisation identifies the farm business making the claim
type Organisation struct {
	SBI  string `json:"sbi" yaml:"sbi"`
	CRN  string `json:"crn,omitempty" yaml:"crn,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Herd is a herd or flock registered against the agreement
type Herd struct {
	ID      string    `json:"id" yaml:"id"`
	Version int       `json:"version" yaml:"version"`
	Name    string    `json:"name" yaml:"name"`
	CPH     string    `json:"cph" yaml:"cph"`
	Reasons []string  `json:"reasons,omitempty" yaml:"reasons,omitempty"`
	Species Livestock `json:"species" yaml:"species"`
}

// Herd reasons: why a group of animals is epidemiologically distinct
const (
	ReasonOnlyHerd           = "onlyHerd"
	ReasonSeparateManagement = "separateManagementNeeds"
	ReasonUniqueHealth       = "uniqueHealthNeeds"
	ReasonDifferentBreed     = "differentBreed"
	ReasonDifferentPurpose   = "differentPurpose"
	ReasonKeptSeparate       = "keptSeparate"
	ReasonOther              = "other"
)

// HerdReasons lists the reasons a farmer may choose on the herd details page
var HerdReasons = []string{
	ReasonSeparateManagement,
	ReasonUniqueHealth,
	ReasonDifferentBreed,
	ReasonDifferentPurpose,
	ReasonKeptSeparate,
	ReasonOther,
}
