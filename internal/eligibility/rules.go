// Package eligibility holds the temporal rules for visit and testing dates.
//
// Rules never perform I/O and never read the clock except through the injected
// Clock, and only for the "today or in the past" check.
package eligibility

import (
	"errors"
	"fmt"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/clock"
	"github.com/ppiankov/claimcheck/internal/history"
	"github.com/ppiankov/claimcheck/internal/model"
)

// ErrNoRelevantReview means a follow-up reached the date rules although the farmer
// has no review of the species at all. Earlier pages prevent this, so it is a sequencing defect.
var ErrNoRelevantReview = errors.New("follow-up has no review of the same species")

// Machine-readable codes of business ineligibility
const (
	CodeReviewSpacing       = "review-spacing"
	CodeFollowUpSpacing     = "follow-up-spacing"
	CodeReviewNotFound      = "review-not-found"
	CodeReviewRejected      = "review-rejected"
	CodeReviewNotApproved   = "review-not-approved"
	CodeTestingBeforeReview = "testing-before-review"
)

// Ineligible is a business rule failure: the answer is well formed but blocks the claim
type Ineligible struct {
	Code     string `json:"code" yaml:"code"`
	Reason   string `json:"reason" yaml:"reason"`                         // Sent verbatim to the notifier and shown on the exception page
	Guidance string `json:"guidance,omitempty" yaml:"guidance,omitempty"` // Extra farmer-facing text
}

func (e *Ineligible) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// Rules evaluates the temporal rules
type Rules struct {
	Clock         clock.Clock
	SpacingMonths int
}

// NewRules returns rules using the given clock and spacing
func NewRules(c clock.Clock, spacingMonths int) Rules {
	if spacingMonths <= 0 {
		spacingMonths = 10
	}
	return Rules{Clock: c, SpacingMonths: spacingMonths}
}

// Today is the current calendar day
func (r Rules) Today() calendar.Date {
	return clock.Today(r.Clock)
}

// CheckReviewTiming applies the minimum spacing between reviews of the same species,
// new-world and old-world alike.
func (r Rules) CheckReviewTiming(h history.History, species model.Livestock, visit calendar.Date) *Ineligible {
	if _, ok := h.SpacingConflict(model.TypeReview, species, visit, r.SpacingMonths); ok {
		return &Ineligible{
			Code:     CodeReviewSpacing,
			Reason:   fmt.Sprintf("There must be at least %d months between your reviews.", r.SpacingMonths),
			Guidance: "If the date you entered is correct, you cannot claim for this review.",
		}
	}
	return nil
}

// CheckFollowUpTiming resolves the review a follow-up is chained to and checks it.
// Order: review exists in the window, review not rejected, review approved, follow-up spacing.
func (r Rules) CheckFollowUpTiming(h history.History, species model.Livestock, visit calendar.Date) (*model.RelevantReview, *Ineligible, error) {
	if !h.HasAnyReviewForSpecies(species) {
		return nil, nil, fmt.Errorf("resolve review for %s follow-up: %w", species, ErrNoRelevantReview)
	}

	review := h.MostRecentReview(species, visit)
	if review == nil || !calendar.WithinMonths(review.DateOfVisit, visit, r.SpacingMonths) {
		return nil, &Ineligible{
			Code:     CodeReviewNotFound,
			Reason:   fmt.Sprintf("There must be no more than %d months between your reviews and follow-ups.", r.SpacingMonths),
			Guidance: fmt.Sprintf("Your follow-up must happen after, and within %d months of, a review of the same species.", r.SpacingMonths),
		}, nil
	}

	if review.Status.IsRejected() {
		return nil, &Ineligible{
			Code:   CodeReviewRejected,
			Reason: "Your review claim was rejected so you cannot claim for a follow-up.",
		}, nil
	}

	if !review.Status.IsApproved() {
		return nil, &Ineligible{
			Code:   CodeReviewNotApproved,
			Reason: "Your review claim must have been approved before you claim for the follow-up that happened after it.",
		}, nil
	}

	if _, ok := h.SpacingConflict(model.TypeFollowUp, species, visit, r.SpacingMonths); ok {
		return nil, &Ineligible{
			Code:   CodeFollowUpSpacing,
			Reason: fmt.Sprintf("There must be at least %d months between your follow-ups.", r.SpacingMonths),
		}, nil
	}

	return review, nil, nil
}

// CheckTestingAfterReview rejects follow-up sampling that happened before the chained review visit
func CheckTestingAfterReview(review *model.RelevantReview, testing calendar.Date) *Ineligible {
	if review == nil || review.DateOfVisit.IsZero() {
		return nil
	}
	if testing.Before(review.DateOfVisit) {
		return &Ineligible{
			Code:   CodeTestingBeforeReview,
			Reason: "You must do a review, including sampling, before you do the resulting follow-up.",
		}
	}
	return nil
}
