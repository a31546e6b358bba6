package journey

import (
	"fmt"

	"github.com/ppiankov/claimcheck/internal/herd"
	"github.com/ppiankov/claimcheck/internal/model"
)

// CodeNoReviewForHerd blocks a follow-up for a herd that has no review of its own
const CodeNoReviewForHerd = "no-review-for-herd"

func (n *Navigator) selectTheHerd(req Request, cc model.ClaimContext) (Decision, error) {
	selected := formValue(req, FieldHerdSelected)
	msg := fmt.Sprintf("Select the %s you are claiming for", cc.TypeOfLivestock.GroupNoun())
	if selected == "" {
		return invalid(FieldHerdSelected, msg), nil
	}

	if selected == NewHerdOption || (cc.TempHerdID != "" && selected == cc.TempHerdID) {
		herd.StartNew(&cc)
		return proceed(PageEnterHerdName, cc), nil
	}

	h, ok := herd.Find(cc, selected)
	if !ok {
		return invalid(FieldHerdSelected, msg), nil
	}
	herd.Select(&cc, h)
	return proceed(PageCheckHerdDetails, cc), nil
}

func (n *Navigator) enterHerdName(req Request, cc model.ClaimContext) (Decision, error) {
	// A name is only ever entered for a new herd, so check it as one even when
	// a registered herd was selected earlier
	if cc.HerdID == "" || cc.HerdID != cc.TempHerdID {
		herd.StartNew(&cc)
	}
	name, msg := herd.ValidateName(cc, req.Form[FieldHerdName])
	if msg != "" {
		return invalid(FieldHerdName, msg), nil
	}
	cc.HerdName = name
	return proceed(PageEnterCPHNumber, cc), nil
}

func (n *Navigator) enterCPHNumber(req Request, cc model.ClaimContext) (Decision, error) {
	cph, msg := herd.ValidateCPH(req.Form[FieldHerdCPH])
	if msg != "" {
		return invalid(FieldHerdCPH, msg), nil
	}
	cc.HerdCPH = cph

	if herd.Resolve(cc) == herd.PathCreate {
		return proceed(PageHerdOthersOnSBI, cc), nil
	}
	return proceed(PageEnterHerdDetails, cc), nil
}

func (n *Navigator) herdOthersOnSBI(req Request, cc model.ClaimContext) (Decision, error) {
	only, ok := yesNo(req, FieldIsOnlyHerdOnSBI)
	if !ok {
		noun := cc.TypeOfLivestock.GroupNoun()
		return invalid(FieldIsOnlyHerdOnSBI, fmt.Sprintf("Select yes if this is the only %s of %s on this SBI", noun, speciesLabel(cc.TypeOfLivestock))), nil
	}

	herd.MarkOnlyHerd(&cc, only)
	if only == model.Yes {
		return proceed(PageCheckHerdDetails, cc), nil
	}
	return proceed(PageEnterHerdDetails, cc), nil
}

func (n *Navigator) enterHerdDetails(req Request, cc model.ClaimContext) (Decision, error) {
	reasons, msg := herd.ValidateReasons(splitList(req.Form[FieldHerdReasons]))
	if msg != "" {
		return invalid(FieldHerdReasons, msg), nil
	}
	cc.HerdReasons = reasons
	return proceed(PageCheckHerdDetails, cc), nil
}

func (n *Navigator) checkHerdDetails(_ Request, cc model.ClaimContext) (Decision, error) {
	if cc.HerdID == "" || cc.HerdName == "" || cc.HerdCPH == "" {
		return Decision{}, fmt.Errorf("herd details: %w", ErrIncompleteClaim)
	}
	if len(cc.HerdReasons) == 0 {
		// Registered herds can come back without reasons; ask for them
		if !herd.IsNew(cc) {
			return proceed(PageEnterHerdDetails, cc), nil
		}
		return Decision{}, fmt.Errorf("herd details: %w", ErrIncompleteClaim)
	}

	if herd.NeedsSameHerdQuestion(cc) {
		return proceed(PageSameHerd, cc), nil
	}
	return n.completeHerd(cc)
}

func (n *Navigator) sameHerd(req Request, cc model.ClaimContext) (Decision, error) {
	same, ok := yesNo(req, FieldHerdSame)
	if !ok {
		noun := cc.TypeOfLivestock.GroupNoun()
		return invalid(FieldHerdSame, fmt.Sprintf("Select yes if it is the same %s you have previously claimed for", noun)), nil
	}
	cc.HerdSame = same
	return n.completeHerd(cc)
}

// completeHerd runs the timing rules against the history of the chosen herd only
func (n *Navigator) completeHerd(cc model.ClaimContext) (Decision, error) {
	scoped := herd.ScopedHistory(cc)

	if cc.TypeOfReview == model.TypeFollowUp && !scoped.HasAnyReviewForSpecies(cc.TypeOfLivestock) {
		noun := cc.TypeOfLivestock.GroupNoun()
		return block(cc, EventIneligibility, Exception{
			Code:     CodeNoReviewForHerd,
			Reason:   fmt.Sprintf("There must be a review of this %s before you can claim for a follow-up.", noun),
			Guidance: fmt.Sprintf("A follow-up must be for the same %s as its review.", noun),
			View:     ViewHerdException,
		}, "herdId", cc.HerdID), nil
	}
	return n.checkTiming(cc, scoped)
}
