package journey

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

const (
	maxVetNameLength = 50
	maxURNLength     = 50
)

var (
	vetNameRegex = regexp.MustCompile(`^[A-Za-z0-9&',.\-/()\s]+$`)
	rcvsRegex    = regexp.MustCompile(`^\d{6}[\dX]$`)
	urnRegex     = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

func formValue(req Request, key string) string {
	return strings.TrimSpace(req.Form[key])
}

// yesNo reads a radio answer; ok is false when it is missing or unknown
func yesNo(req Request, key string) (model.YesNo, bool) {
	a := model.YesNo(strings.ToLower(formValue(req, key)))
	return a, a.Valid()
}

func testResult(req Request, key string) (model.TestResult, bool) {
	r := model.TestResult(strings.ToLower(formValue(req, key)))
	return r, r.Valid()
}

// wholeNumber parses a positive integer answer
func wholeNumber(req Request, key string) (int, bool) {
	n, err := strconv.Atoi(formValue(req, key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// speciesLabel names the animals in farmer-facing text
func speciesLabel(l model.Livestock) string {
	switch l {
	case model.LivestockBeef:
		return "beef cattle"
	case model.LivestockDairy:
		return "dairy cattle"
	default:
		return string(l)
	}
}

// minimumTested is the smallest number of animals that must be sampled, 0 when
// the page is not asked (cattle follow-ups test through the PI hunt, dairy reviews use bulk milk)
func minimumTested(kind model.TypeOfReview, l model.Livestock) int {
	switch {
	case l == model.LivestockPigs:
		return 30
	case l == model.LivestockSheep:
		return 10
	case l == model.LivestockBeef && kind == model.TypeReview:
		return 5
	default:
		return 0
	}
}

// URNWellFormed reports whether the test-urn answer in form would pass
// validation. The host only asks the backend about well-formed URNs.
func URNWellFormed(form map[string]string) bool {
	urn := strings.TrimSpace(form[FieldLaboratoryURN])
	return urn != "" && len(urn) <= maxURNLength && urnRegex.MatchString(urn)
}
