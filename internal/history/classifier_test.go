package history

import (
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/model"
)

func claim(kind model.TypeOfReview, status model.Status, species model.Livestock, visit string) model.Claim {
	return model.Claim{
		Reference: "REBC-" + visit,
		Type:      kind,
		Status:    status,
		CreatedAt: calendar.MustParse(visit).Time(),
		Data: model.ClaimData{
			TypeOfLivestock: species,
			DateOfVisit:     calendar.MustParse(visit),
		},
	}
}

func TestHasReviewForSpecies(t *testing.T) {
	h := History{Claims: []model.Claim{
		claim(model.TypeReview, model.StatusRejected, model.LivestockSheep, "2024-05-01"),
		claim(model.TypeFollowUp, model.StatusPaid, model.LivestockBeef, "2024-06-01"),
	}}

	if !h.HasReviewForSpecies(model.LivestockSheep) {
		t.Error("expected a rejected sheep review to count")
	}
	if h.HasReviewForSpecies(model.LivestockBeef) {
		t.Error("expected a beef follow-up not to count as a review")
	}
}

func TestMostRecentApprovedReviewForSpecies(t *testing.T) {
	h := History{Claims: []model.Claim{
		claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2023-01-10"),
		claim(model.TypeReview, model.StatusReadyToPay, model.LivestockBeef, "2024-02-10"),
		claim(model.TypeReview, model.StatusInCheck, model.LivestockBeef, "2024-09-10"),
		claim(model.TypeReview, model.StatusPaid, model.LivestockPigs, "2024-10-10"),
	}}

	got, ok := h.MostRecentApprovedReviewForSpecies(model.LivestockBeef)
	if !ok {
		t.Fatal("expected an approved beef review")
	}
	if got.Data.DateOfVisit.String() != "2024-02-10" {
		t.Errorf("expected the 2024-02-10 review, got %s", got.Data.DateOfVisit)
	}

	if _, ok := h.MostRecentApprovedReviewForSpecies(model.LivestockSheep); ok {
		t.Error("expected no approved sheep review")
	}
}

func TestIsWithinSpacingWindow(t *testing.T) {
	tests := []struct {
		desc      string
		claims    []model.Claim
		vetVisit  *model.Application
		kind      model.TypeOfReview
		candidate string
		want      bool
	}{
		{
			desc:      "same species agreed review three weeks earlier",
			claims:    []model.Claim{claim(model.TypeReview, model.StatusAgreed, model.LivestockBeef, "2024-12-12")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      true,
		},
		{
			desc:      "exactly ten months apart passes",
			claims:    []model.Claim{claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2024-03-01")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      false,
		},
		{
			desc:      "other species never blocks",
			claims:    []model.Claim{claim(model.TypeReview, model.StatusPaid, model.LivestockSheep, "2024-12-12")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      false,
		},
		{
			desc:      "rejected claim never blocks",
			claims:    []model.Claim{claim(model.TypeReview, model.StatusRejected, model.LivestockBeef, "2024-12-12")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      false,
		},
		{
			desc:      "follow-ups do not block reviews",
			claims:    []model.Claim{claim(model.TypeFollowUp, model.StatusPaid, model.LivestockBeef, "2024-12-12")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      false,
		},
		{
			desc:      "later claim blocks an earlier candidate",
			claims:    []model.Claim{claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2025-02-01")},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      true,
		},
		{
			desc: "old-world review of the same species blocks",
			vetVisit: &model.Application{
				Type:   model.ApplicationVetVisits,
				Status: model.StatusPaid,
				Data:   model.ApplicationData{WhichReview: model.LivestockDairy, VisitDate: calendar.MustParse("2024-08-01")},
			},
			kind:      model.TypeReview,
			candidate: "2025-01-01",
			want:      true,
		},
		{
			desc: "old-world review does not constrain follow-ups",
			vetVisit: &model.Application{
				Type:   model.ApplicationVetVisits,
				Status: model.StatusPaid,
				Data:   model.ApplicationData{WhichReview: model.LivestockDairy, VisitDate: calendar.MustParse("2024-08-01")},
			},
			kind:      model.TypeFollowUp,
			candidate: "2025-01-01",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			h := History{Claims: tt.claims, VetVisit: tt.vetVisit}
			species := model.LivestockBeef
			if tt.vetVisit != nil {
				species = model.LivestockDairy
			}
			got := h.IsWithinSpacingWindow(tt.kind, species, calendar.MustParse(tt.candidate), 10)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMostRecentReview_PrefersMoreRecentWorld(t *testing.T) {
	h := History{
		Claims: []model.Claim{claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2024-03-01")},
		VetVisit: &model.Application{
			Reference: "AHWR-OLD",
			Status:    model.StatusReadyToPay,
			Data:      model.ApplicationData{WhichReview: model.LivestockBeef, VisitDate: calendar.MustParse("2024-06-01")},
		},
	}

	got := h.MostRecentReview(model.LivestockBeef, calendar.MustParse("2025-01-01"))
	if got == nil || got.Type != model.RelevantReviewVetVisits {
		t.Fatalf("expected the old-world review, got %+v", got)
	}

	got = h.MostRecentReview(model.LivestockBeef, calendar.MustParse("2024-05-01"))
	if got == nil || got.Type != model.RelevantReviewClaim {
		t.Fatalf("expected the new-world review before the old-world visit, got %+v", got)
	}

	if got := h.MostRecentReview(model.LivestockBeef, calendar.MustParse("2024-01-01")); got != nil {
		t.Errorf("expected no review before 2024-01-01, got %+v", got)
	}
}

func TestForHerd(t *testing.T) {
	attributed := claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2025-06-01")
	attributed.Herd = &model.ClaimHerd{ID: "herd-1", Name: "North"}
	other := claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2025-07-01")
	other.Herd = &model.ClaimHerd{ID: "herd-2", Name: "South"}
	legacy := claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2024-01-01")

	h := History{Claims: []model.Claim{attributed, other, legacy}}

	if got := h.ForHerd("herd-1", false).Claims; len(got) != 1 || got[0].Herd.ID != "herd-1" {
		t.Errorf("expected only herd-1 claims, got %+v", got)
	}
	if got := h.ForHerd("herd-1", true).Claims; len(got) != 2 {
		t.Errorf("expected herd-1 plus unattributed claims, got %d", len(got))
	}
	if got := h.ForHerd("", false).Claims; len(got) != 0 {
		t.Errorf("expected a new herd to have no history, got %d", len(got))
	}
}

func TestHerdsUsedByPreviousClaims(t *testing.T) {
	a := claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2025-06-01")
	a.Herd = &model.ClaimHerd{ID: "herd-1", Name: "North"}
	b := claim(model.TypeFollowUp, model.StatusPaid, model.LivestockBeef, "2025-07-01")
	b.Herd = &model.ClaimHerd{ID: "herd-1", Name: "North"}
	c := claim(model.TypeReview, model.StatusPaid, model.LivestockSheep, "2025-07-01")
	c.Herd = &model.ClaimHerd{ID: "flock-1", Name: "Hill flock"}

	got := HerdsUsedByPreviousClaims([]model.Claim{a, b, c, claim(model.TypeReview, model.StatusPaid, model.LivestockPigs, "2024-01-01")})
	want := []UsedHerd{{ID: "herd-1", Name: "North"}, {ID: "flock-1", Name: "Hill flock"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestClassifierDoesNotMutateInput(t *testing.T) {
	claims := []model.Claim{
		claim(model.TypeReview, model.StatusPaid, model.LivestockBeef, "2024-12-01"),
		claim(model.TypeReview, model.StatusAgreed, model.LivestockBeef, "2024-01-01"),
	}
	snapshot := append([]model.Claim(nil), claims...)

	h := History{Claims: claims}
	_ = h.SpacingDates(model.TypeReview, model.LivestockBeef)
	_ = h.MostRecentReview(model.LivestockBeef, calendar.New(2025, time.January, 1))
	_ = h.ForHerd("", true)

	if !reflect.DeepEqual(claims, snapshot) {
		t.Error("expected previous claims to be left untouched")
	}
}
