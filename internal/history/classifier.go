// Package history classifies a farmer's previous claims and agreements.
//
// Every function is pure: the input slices are never modified and returned
// slices are freshly allocated.
package history

import (
	"sort"
	"strings"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/model"
)

// History is the read-only view of previous claims plus the legacy agreement
type History struct {
	Claims   []model.Claim
	VetVisit *model.Application // Old-world agreement, nil if the farmer never had one
}

// FromContext builds the history view of a claim context
func FromContext(cc model.ClaimContext) History {
	return History{
		Claims:   cc.PreviousClaims,
		VetVisit: cc.LatestVetVisitApplication,
	}
}

// ForSpecies returns the claims made for species
func ForSpecies(claims []model.Claim, species model.Livestock) []model.Claim {
	var out []model.Claim
	for _, c := range claims {
		if c.Data.TypeOfLivestock == species {
			out = append(out, c)
		}
	}
	return out
}

// HasReviewForSpecies reports whether any REVIEW claim exists for species, whatever its status
func (h History) HasReviewForSpecies(species model.Livestock) bool {
	for _, c := range h.Claims {
		if c.Type == model.TypeReview && c.Data.TypeOfLivestock == species {
			return true
		}
	}
	return false
}

// HasAnyReviewForSpecies also counts an old-world agreement for species
func (h History) HasAnyReviewForSpecies(species model.Livestock) bool {
	return h.HasReviewForSpecies(species) || h.OldWorldReview(species) != nil
}

// MostRecentApprovedReviewForSpecies returns the latest READY_TO_PAY or PAID review for species
func (h History) MostRecentApprovedReviewForSpecies(species model.Livestock) (model.Claim, bool) {
	var (
		best  model.Claim
		found bool
	)
	for _, c := range h.Claims {
		if c.Type != model.TypeReview || c.Data.TypeOfLivestock != species || !c.Status.IsApproved() {
			continue
		}
		if !found || laterClaim(c, best) {
			best, found = c, true
		}
	}
	return best, found
}

// OldWorldReview presents the legacy agreement as a review of its species,
// or nil when there is none for species
func (h History) OldWorldReview(species model.Livestock) *model.RelevantReview {
	app := h.VetVisit
	if app == nil || app.Data.WhichReview != species || app.Data.VisitDate.IsZero() {
		return nil
	}
	return &model.RelevantReview{
		Type:            model.RelevantReviewVetVisits,
		Reference:       app.Reference,
		Status:          app.Status,
		TypeOfLivestock: species,
		DateOfVisit:     app.Data.VisitDate,
	}
}

// SpacingDates returns the visit dates that constrain a new claim of the given kind:
// same-species claims of that kind in a spacing status and, for reviews,
// the old-world review of the same species.
func (h History) SpacingDates(kind model.TypeOfReview, species model.Livestock) []calendar.Date {
	var dates []calendar.Date
	for _, c := range h.Claims {
		if c.Type == kind && c.Data.TypeOfLivestock == species && c.Status.CountsForSpacing() && !c.Data.DateOfVisit.IsZero() {
			dates = append(dates, c.Data.DateOfVisit)
		}
	}
	if kind == model.TypeReview {
		if ow := h.OldWorldReview(species); ow != nil && ow.Status.CountsForSpacing() {
			dates = append(dates, ow.DateOfVisit)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// IsWithinSpacingWindow reports whether any constraining date is less than months away from candidate.
// Claims of other species never count.
func (h History) IsWithinSpacingWindow(kind model.TypeOfReview, species model.Livestock, candidate calendar.Date, months int) bool {
	_, ok := h.SpacingConflict(kind, species, candidate, months)
	return ok
}

// SpacingConflict returns the most recent constraining date inside the window
func (h History) SpacingConflict(kind model.TypeOfReview, species model.Livestock, candidate calendar.Date, months int) (calendar.Date, bool) {
	for _, d := range h.SpacingDates(kind, species) {
		if calendar.WithinMonths(d, candidate, months) {
			return d, true
		}
	}
	return calendar.Date{}, false
}

// MostRecentReview returns the latest review of species visited on or before date,
// considering new-world REVIEW claims in any status and the old-world agreement.
// On equal dates the new-world claim wins.
func (h History) MostRecentReview(species model.Livestock, onOrBefore calendar.Date) *model.RelevantReview {
	var best *model.RelevantReview
	for _, c := range h.Claims {
		if c.Type != model.TypeReview || c.Data.TypeOfLivestock != species {
			continue
		}
		if c.Data.DateOfVisit.IsZero() || c.Data.DateOfVisit.After(onOrBefore) {
			continue
		}
		if best == nil || c.Data.DateOfVisit.After(best.DateOfVisit) {
			best = &model.RelevantReview{
				Type:            model.RelevantReviewClaim,
				Reference:       c.Reference,
				Status:          c.Status,
				TypeOfLivestock: species,
				DateOfVisit:     c.Data.DateOfVisit,
				TestResults:     c.Data.TestResults,
			}
		}
	}

	if ow := h.OldWorldReview(species); ow != nil && !ow.DateOfVisit.After(onOrBefore) {
		if best == nil || ow.DateOfVisit.After(best.DateOfVisit) {
			best = ow
		}
	}
	return best
}

// HasOtherSpecies reports whether a non-rejected claim exists for a species other than species
func (h History) HasOtherSpecies(species model.Livestock) bool {
	for _, c := range h.Claims {
		if c.Data.TypeOfLivestock != species && !c.Status.IsRejected() {
			return true
		}
	}
	return false
}

// ForHerd narrows the history to one herd. Claims made before herds were
// recorded are included when includeUnattributed is set (the farmer confirmed
// it is the same herd). The old-world agreement predates herds and follows the same rule.
func (h History) ForHerd(herdID string, includeUnattributed bool) History {
	out := History{}
	for _, c := range h.Claims {
		switch {
		case c.Herd == nil && includeUnattributed:
			out.Claims = append(out.Claims, c)
		case c.Herd != nil && herdID != "" && c.Herd.ID == herdID:
			out.Claims = append(out.Claims, c)
		}
	}
	if includeUnattributed {
		out.VetVisit = h.VetVisit
	}
	return out
}

// ClaimsWithoutHerd returns the species' claims that were never attributed to a herd
func (h History) ClaimsWithoutHerd(species model.Livestock) []model.Claim {
	var out []model.Claim
	for _, c := range ForSpecies(h.Claims, species) {
		if c.Herd == nil {
			out = append(out, c)
		}
	}
	return out
}

// UsedHerd is a herd a previous claim was made against
type UsedHerd struct {
	ID   string
	Name string
}

// HerdsUsedByPreviousClaims returns each distinct herd claimed against, in first-seen order
func HerdsUsedByPreviousClaims(claims []model.Claim) []UsedHerd {
	var out []UsedHerd
	seen := make(map[string]bool)
	for _, c := range claims {
		if c.Herd == nil {
			continue
		}
		key := c.Herd.ID
		if key == "" {
			key = "name:" + strings.ToLower(strings.TrimSpace(c.Herd.Name))
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, UsedHerd{ID: c.Herd.ID, Name: c.Herd.Name})
	}
	return out
}

// laterClaim orders by visit date, then creation time
func laterClaim(a, b model.Claim) bool {
	if cmp := a.Data.DateOfVisit.Compare(b.Data.DateOfVisit); cmp != 0 {
		return cmp > 0
	}
	return a.CreatedAt.After(b.CreatedAt)
}
