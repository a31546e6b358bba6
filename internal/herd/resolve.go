// Package herd decides how a claim is attributed to a herd or flock
// once multiple herds are tracked.
package herd

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ppiankov/claimcheck/internal/history"
	"github.com/ppiankov/claimcheck/internal/model"
)

// MaxNameLength is the longest herd name accepted
const MaxNameLength = 30

var (
	nameRegex = regexp.MustCompile(`^[A-Za-z0-9&',.\-/()\s]+$`)
	cphRegex  = regexp.MustCompile(`^\d{2}/\d{3}/\d{4}$`)
)

// Path is the first herd page of the journey
type Path int

const (
	PathCreate Path = iota // No herds yet: name and CPH must be entered
	PathSelect             // Herds exist: select one or create another
)

// Resolve picks the herd path for the claim's species
func Resolve(cc model.ClaimContext) Path {
	if len(Candidates(cc)) > 0 {
		return PathSelect
	}
	return PathCreate
}

// Candidates returns the registered herds of the claim's species
func Candidates(cc model.ClaimContext) []model.Herd {
	var out []model.Herd
	for _, h := range cc.Herds {
		if h.Species == "" || h.Species == cc.TypeOfLivestock {
			out = append(out, h)
		}
	}
	return out
}

// Find returns the candidate herd with id
func Find(cc model.ClaimContext, id string) (model.Herd, bool) {
	for _, h := range Candidates(cc) {
		if h.ID == id {
			return h, true
		}
	}
	return model.Herd{}, false
}

// IsNew reports whether the claim is creating a herd rather than using a registered one
func IsNew(cc model.ClaimContext) bool {
	if cc.HerdID == "" {
		return true
	}
	_, ok := Find(cc, cc.HerdID)
	return !ok
}

// Select attributes the claim to a registered herd. A different selection
// clears the details entered for the previous one.
func Select(cc *model.ClaimContext, h model.Herd) {
	if cc.HerdID != h.ID {
		cc.ClearHerdDetails()
		cc.IsOnlyHerdOnSBI = ""
	}
	cc.HerdID = h.ID
	cc.HerdVersion = h.Version
	cc.HerdName = h.Name
	cc.HerdCPH = h.CPH
	cc.HerdReasons = append([]string(nil), h.Reasons...)
}

// StartNew attributes the claim to a herd that will be created on submission,
// identified by the temporary herd id
func StartNew(cc *model.ClaimContext) {
	if cc.HerdID != cc.TempHerdID || cc.HerdID == "" {
		cc.ClearHerdDetails()
		cc.HerdName = ""
		cc.IsOnlyHerdOnSBI = ""
	}
	cc.HerdID = cc.TempHerdID
	cc.HerdVersion = 1
}

// MarkOnlyHerd records that no other herd of the species exists on the SBI
func MarkOnlyHerd(cc *model.ClaimContext, only model.YesNo) {
	cc.IsOnlyHerdOnSBI = only
	if only == model.Yes {
		cc.HerdReasons = []string{model.ReasonOnlyHerd}
		return
	}
	if slices.Equal(cc.HerdReasons, []string{model.ReasonOnlyHerd}) {
		cc.HerdReasons = nil
	}
}

// ValidateName checks a new herd name. Duplicates are compared case-insensitively
// against herds used by previous claims and registered herds of the species.
func ValidateName(cc model.ClaimContext, name string) (string, string) {
	name = strings.TrimSpace(name)
	noun := cc.TypeOfLivestock.GroupNoun()

	switch {
	case name == "":
		return "", fmt.Sprintf("Enter the %s name", noun)
	case len(name) > MaxNameLength:
		return "", fmt.Sprintf("Name must be %d characters or fewer", MaxNameLength)
	case !nameRegex.MatchString(name):
		return "", fmt.Sprintf("The %s name must only include letters a to z, numbers and special characters such as hyphens, spaces, apostrophes, ampersands, commas, brackets or a forward slash", noun)
	}

	for _, used := range UsedNames(cc) {
		if strings.EqualFold(used, name) {
			return "", fmt.Sprintf("You have already used '%s' as a %s name", name, noun)
		}
	}
	return name, ""
}

// UsedNames lists the herd names that a new herd may not reuse. Only the new
// herd's own temporary id is exempt.
func UsedNames(cc model.ClaimContext) []string {
	var names []string
	for _, used := range history.HerdsUsedByPreviousClaims(cc.PreviousClaims) {
		if cc.TempHerdID != "" && used.ID == cc.TempHerdID {
			continue
		}
		names = append(names, used.Name)
	}
	for _, h := range Candidates(cc) {
		if cc.TempHerdID != "" && h.ID == cc.TempHerdID {
			continue
		}
		names = append(names, h.Name)
	}
	return names
}

// ValidateCPH checks a County Parish Holding number
func ValidateCPH(cph string) (string, string) {
	cph = strings.TrimSpace(cph)
	switch {
	case cph == "":
		return "", "Enter the CPH for this herd"
	case !cphRegex.MatchString(cph):
		return "", "Enter the CPH in the format 12/345/6789"
	}
	return cph, ""
}

// ValidateReasons checks the reasons a herd is separate
func ValidateReasons(reasons []string) ([]string, string) {
	var out []string
	for _, r := range reasons {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !slices.Contains(model.HerdReasons, r) {
			return nil, fmt.Sprintf("Unknown reason %q", r)
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, "Select the reasons this herd is separate"
	}
	return out, ""
}

// NeedsSameHerdQuestion reports whether the farmer must say if claims made before
// herds were recorded (including an old-world review) were for this herd
func NeedsSameHerdQuestion(cc model.ClaimContext) bool {
	h := history.FromContext(cc)
	return len(h.ClaimsWithoutHerd(cc.TypeOfLivestock)) > 0 || h.OldWorldReview(cc.TypeOfLivestock) != nil
}

// ScopedHistory is the history that constrains the claim once multiple herds are tracked
func ScopedHistory(cc model.ClaimContext) history.History {
	h := history.FromContext(cc)
	existing := cc.HerdID
	if IsNew(cc) {
		existing = ""
	}
	return h.ForHerd(existing, cc.HerdSame == model.Yes)
}
