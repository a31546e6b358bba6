// Package journey drives the page-by-page claim journey. Given the page just
// submitted, its form answers and the claim context, the Navigator decides
// whether the claim continues, is blocked, or the answer must be corrected.
//
// The Navigator is pure: it performs no I/O and reads time only through the
// Rules clock. Side effects it wants executed are returned as Effects.
package journey

import (
	"errors"
	"fmt"

	"github.com/ppiankov/claimcheck/internal/eligibility"
	"github.com/ppiankov/claimcheck/internal/golive"
	"github.com/ppiankov/claimcheck/internal/model"
)

// Defects: the request arrived out of sequence or the host broke its contract.
// They are returned as errors, never as an EXCEPTION.
var (
	ErrUnknownPage         = errors.New("unknown page")
	ErrMissingTypeOfReview = errors.New("type of review not set")
	ErrMissingLivestock    = errors.New("type of livestock not set")
	ErrMissingVisitDate    = errors.New("date of visit not set")
	ErrMissingAgreement    = errors.New("no agreement loaded")
	ErrMissingURNCheck     = errors.New("URN uniqueness was not checked")
	ErrOutOfSequence       = errors.New("page not reachable for this claim")
	ErrIncompleteClaim     = errors.New("claim is incomplete")
	ErrNoRelevantReview    = eligibility.ErrNoRelevantReview
)

// Navigator decides page transitions
type Navigator struct {
	Gates golive.Gates
	Rules eligibility.Rules
}

// New creates a navigator
func New(gates golive.Gates, rules eligibility.Rules) *Navigator {
	return &Navigator{Gates: gates, Rules: rules}
}

type handler func(n *Navigator, req Request, cc model.ClaimContext) (Decision, error)

var handlers = map[Page]handler{
	PageWhichSpecies:               (*Navigator).whichSpecies,
	PageWhichTypeOfReview:          (*Navigator).whichTypeOfReview,
	PageVetVisitsReviewTestResults: (*Navigator).vetVisitsReviewTestResults,
	PageDateOfVisit:                (*Navigator).dateOfVisit,
	PageSelectTheHerd:              (*Navigator).selectTheHerd,
	PageEnterHerdName:              (*Navigator).enterHerdName,
	PageEnterCPHNumber:             (*Navigator).enterCPHNumber,
	PageHerdOthersOnSBI:            (*Navigator).herdOthersOnSBI,
	PageEnterHerdDetails:           (*Navigator).enterHerdDetails,
	PageCheckHerdDetails:           (*Navigator).checkHerdDetails,
	PageSameHerd:                   (*Navigator).sameHerd,
	PageDateOfTesting:              (*Navigator).dateOfTesting,
	PageSpeciesNumbers:             (*Navigator).speciesNumbers,
	PageNumberOfSpeciesTested:      (*Navigator).numberOfSpeciesTested,
	PageVetName:                    (*Navigator).vetName,
	PageVetRCVS:                    (*Navigator).vetRCVS,
	PagePIHunt:                     (*Navigator).piHunt,
	PagePIHuntRecommended:          (*Navigator).piHuntRecommended,
	PagePIHuntAllAnimals:           (*Navigator).piHuntAllAnimals,
	PageTestURN:                    (*Navigator).testURN,
	PageTestResults:                (*Navigator).testResults,
	PageBiosecurity:                (*Navigator).biosecurity,
	PageCheckAnswers:               (*Navigator).checkAnswers,
}

// Next evaluates one page submission. The input context is never modified.
// Form validation runs first; an INVALID answer never reaches the business rules.
func (n *Navigator) Next(req Request, cc model.ClaimContext) (Decision, error) {
	h, ok := handlers[req.Page]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrUnknownPage, req.Page)
	}

	if err := n.requires(req.Page, cc); err != nil {
		return Decision{}, fmt.Errorf("%s: %w", req.Page, err)
	}

	d, err := h(n, req, cc.Clone())
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", req.Page, err)
	}

	d.Page = req.Page
	if d.Outcome == OutcomeInvalid {
		d.Context = cc
		d.Effects = nil
	}
	for i := range d.Effects {
		d.Effects[i].Page = req.Page
	}
	return d, nil
}

// requires checks the context a page depends on
func (n *Navigator) requires(page Page, cc model.ClaimContext) error {
	if page == PageWhichSpecies {
		return nil
	}
	if !cc.TypeOfLivestock.Valid() {
		return ErrMissingLivestock
	}
	if page == PageWhichTypeOfReview {
		return nil
	}
	if !cc.TypeOfReview.Valid() {
		return ErrMissingTypeOfReview
	}

	switch page {
	case PageVetVisitsReviewTestResults:
		if cc.TypeOfReview != model.TypeFollowUp {
			return ErrOutOfSequence
		}
		return nil
	case PageDateOfVisit:
		return nil
	}

	if cc.DateOfVisit.IsZero() {
		return ErrMissingVisitDate
	}

	switch page {
	case PageSelectTheHerd, PageEnterHerdName, PageEnterCPHNumber, PageHerdOthersOnSBI,
		PageEnterHerdDetails, PageCheckHerdDetails, PageSameHerd:
		if !n.Gates.IsMultiHerds(cc.DateOfVisit) {
			return ErrOutOfSequence
		}
	case PagePIHunt, PagePIHuntRecommended, PagePIHuntAllAnimals:
		if !isCattleFollowUp(cc) {
			return ErrOutOfSequence
		}
	case PageBiosecurity:
		if cc.TypeOfReview != model.TypeFollowUp {
			return ErrOutOfSequence
		}
	}
	return nil
}

func proceed(next Page, cc model.ClaimContext) Decision {
	return Decision{Outcome: OutcomeContinue, NextPage: next, Context: cc}
}

func invalid(field, message string) Decision {
	return Decision{
		Outcome:     OutcomeInvalid,
		FieldErrors: []eligibility.FieldError{{Field: field, Message: message}},
	}
}

func invalidField(ferr *eligibility.FieldError) Decision {
	return invalid(ferr.Field, ferr.Message)
}

// block stops the claim and records exactly one event for it.
// field and value identify the answer that caused it.
func block(cc model.ClaimContext, kind EventKind, ex Exception, field, value string) Decision {
	return Decision{
		Outcome:   OutcomeException,
		Exception: &ex,
		Context:   cc,
		Effects: []Effect{{
			Kind:      kind,
			Code:      ex.Code,
			Reason:    ex.Reason,
			Reference: cc.Reference,
			SBI:       cc.Organisation.SBI,
			CRN:       cc.Organisation.CRN,
			Field:     field,
			Value:     value,
		}},
	}
}

// ineligible blocks the claim on a temporal rule
func ineligible(cc model.ClaimContext, inel *eligibility.Ineligible, view, field, value string) Decision {
	return block(cc, EventIneligibility, Exception{
		Code:     inel.Code,
		Reason:   inel.Reason,
		Guidance: inel.Guidance,
		View:     view,
	}, field, value)
}

func isCattleFollowUp(cc model.ClaimContext) bool {
	return cc.TypeOfReview == model.TypeFollowUp && cc.TypeOfLivestock.IsCattle()
}

// inPIHuntFlow reports whether testing is collected after the PI hunt questions
func (n *Navigator) inPIHuntFlow(cc model.ClaimContext) bool {
	return isCattleFollowUp(cc) && n.Gates.IsOptionalPIHunt(cc.DateOfVisit)
}

// afterVisit is the first page once the visit date and herd are settled
func (n *Navigator) afterVisit(cc model.ClaimContext) Page {
	if n.inPIHuntFlow(cc) {
		return PageSpeciesNumbers
	}
	return PageDateOfTesting
}
