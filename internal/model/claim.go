package model

import (
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
)

// TypeOfReview distinguishes the two claim kinds
type TypeOfReview string

const (
	TypeReview   TypeOfReview = "REVIEW"    // Annual health and welfare review
	TypeFollowUp TypeOfReview = "FOLLOW_UP" // Endemic disease follow-up, chained to a review
)

// Valid reports whether t is a known claim kind
func (t TypeOfReview) Valid() bool {
	return t == TypeReview || t == TypeFollowUp
}

// Noun is the farmer-facing word used in messages ("review", "follow-up")
func (t TypeOfReview) Noun() string {
	if t == TypeFollowUp {
		return "follow-up"
	}
	return "review"
}

// Livestock is the species a claim is made for
type Livestock string

const (
	LivestockBeef  Livestock = "beef"
	LivestockDairy Livestock = "dairy"
	LivestockPigs  Livestock = "pigs"
	LivestockSheep Livestock = "sheep"
)

// AllLivestock lists the species in display order
var AllLivestock = []Livestock{LivestockBeef, LivestockDairy, LivestockPigs, LivestockSheep}

func (l Livestock) Valid() bool {
	switch l {
	case LivestockBeef, LivestockDairy, LivestockPigs, LivestockSheep:
		return true
	default:
		return false
	}
}

// IsCattle reports whether PI hunt rules can apply
func (l Livestock) IsCattle() bool {
	return l == LivestockBeef || l == LivestockDairy
}

// GroupNoun is "flock" for sheep and "herd" for everything else
func (l Livestock) GroupNoun() string {
	if l == LivestockSheep {
		return "flock"
	}
	return "herd"
}

// TestResult is the outcome of laboratory testing
type TestResult string

const (
	TestPositive TestResult = "positive"
	TestNegative TestResult = "negative"
)

func (r TestResult) Valid() bool {
	return r == TestPositive || r == TestNegative
}

// YesNo is a radio answer; the empty value means unanswered
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

func (a YesNo) Valid() bool {
	return a == Yes || a == No
}

// Status is a claim or agreement status held by the backend
type Status string

const (
	StatusAgreed              Status = "AGREED"
	StatusInCheck             Status = "IN_CHECK"
	StatusOnHold              Status = "ON_HOLD"
	StatusRecommendedToPay    Status = "RECOMMENDED_TO_PAY"
	StatusRecommendedToReject Status = "RECOMMENDED_TO_REJECT"
	StatusReadyToPay          Status = "READY_TO_PAY"
	StatusPaid                Status = "PAID"
	StatusRejected            Status = "REJECTED"
	StatusWithdrawn           Status = "WITHDRAWN"
	StatusNotAgreed           Status = "NOT_AGREED"
)

// CountsForSpacing reports whether a claim in this status blocks another claim
// of the same kind inside the spacing window
func (s Status) CountsForSpacing() bool {
	switch s {
	case StatusAgreed, StatusReadyToPay, StatusPaid:
		return true
	default:
		return false
	}
}

// IsApproved reports whether a review in this status can anchor a follow-up
func (s Status) IsApproved() bool {
	return s == StatusReadyToPay || s == StatusPaid
}

// IsRejected reports whether the claim will never be paid
func (s Status) IsRejected() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusNotAgreed, StatusRecommendedToReject:
		return true
	default:
		return false
	}
}

// Claim is a previously submitted claim against the current agreement
type Claim struct {
	Reference            string       `json:"reference" yaml:"reference"`
	ApplicationReference string       `json:"applicationReference,omitempty" yaml:"applicationReference,omitempty"`
	Type                 TypeOfReview `json:"type" yaml:"type"`
	Status               Status       `json:"status" yaml:"status"`
	CreatedAt            time.Time    `json:"createdAt" yaml:"createdAt"`
	Data                 ClaimData    `json:"data" yaml:"data"`
	Herd                 *ClaimHerd   `json:"herd,omitempty" yaml:"herd,omitempty"`
}

// ClaimData holds the answers recorded on a previous claim
type ClaimData struct {
	TypeOfLivestock Livestock     `json:"typeOfLivestock" yaml:"typeOfLivestock"`
	DateOfVisit     calendar.Date `json:"dateOfVisit" yaml:"dateOfVisit"`
	DateOfTesting   calendar.Date `json:"dateOfTesting" yaml:"dateOfTesting,omitempty"`
	TestResults     TestResult    `json:"testResults,omitempty" yaml:"testResults,omitempty"`
}

// ClaimHerd is the herd a previous claim was attributed to
type ClaimHerd struct {
	ID      string `json:"id" yaml:"id"`
	Version int    `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
	CPH     string `json:"cph,omitempty" yaml:"cph,omitempty"`
}
