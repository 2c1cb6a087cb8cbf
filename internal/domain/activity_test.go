package domain

import (
	"testing"
)

// ─── Transition Table Tests ─────────────────────────────────────────────────

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		from Status
		to   Status
		want bool
	}{
		{"deed approval", KindGoodDeed, StatusPendingApproval, StatusCompleted, true},
		{"deed rejection", KindGoodDeed, StatusPendingApproval, StatusAnnulled, true},
		{"deed cannot be compensated", KindGoodDeed, StatusPendingApproval, StatusCompensated, false},
		{"deed terminal completed", KindGoodDeed, StatusCompleted, StatusAnnulled, false},

		{"complaint acknowledged", KindComplaint, StatusInProgress, StatusApproved, true},
		{"complaint fixed early", KindComplaint, StatusInProgress, StatusPendingConfirmation, true},
		{"complaint straight to court", KindComplaint, StatusInProgress, StatusPendingAppeal, true},
		{"acknowledged then fixed", KindComplaint, StatusApproved, StatusPendingConfirmation, true},
		{"acknowledged then court", KindComplaint, StatusApproved, StatusPendingAppeal, true},
		{"confirmation accepted", KindComplaint, StatusPendingConfirmation, StatusCompensated, true},
		{"confirmation contested", KindComplaint, StatusPendingConfirmation, StatusPendingAppeal, true},
		{"court annuls", KindComplaint, StatusPendingAppeal, StatusAnnulled, true},
		{"court upholds", KindComplaint, StatusPendingAppeal, StatusJudgedValid, true},
		{"no escape from court", KindComplaint, StatusPendingAppeal, StatusInProgress, false},
		{"compensated is terminal", KindComplaint, StatusCompensated, StatusPendingAppeal, false},
		{"annulled is terminal", KindComplaint, StatusAnnulled, StatusInProgress, false},
		{"judged is terminal", KindComplaint, StatusJudgedValid, StatusPendingAppeal, false},
		{"complaint cannot be approved as deed", KindComplaint, StatusInProgress, StatusCompleted, false},

		{"purchase has no edges", KindPurchase, StatusCompleted, StatusAnnulled, false},
		{"purchase cannot be appealed", KindPurchase, StatusCompleted, StatusPendingAppeal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.kind, tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s → %s) = %v, want %v",
					tt.kind, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCourtOnly(t *testing.T) {
	if !CourtOnly(StatusPendingAppeal, StatusAnnulled) {
		t.Error("PendingAppeal → Annulled must be court-only")
	}
	if !CourtOnly(StatusPendingAppeal, StatusJudgedValid) {
		t.Error("PendingAppeal → JudgedValid must be court-only")
	}
	if CourtOnly(StatusInProgress, StatusPendingAppeal) {
		t.Error("entering court is a user transition, not court-only")
	}
}

// ─── Predicate Tests ────────────────────────────────────────────────────────

func TestIsTerminal(t *testing.T) {
	terminal := []Status{StatusCompensated, StatusAnnulled, StatusJudgedValid}
	for _, s := range terminal {
		if !IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = false, want true", s)
		}
	}
	open := []Status{StatusPendingApproval, StatusInProgress, StatusApproved,
		StatusPendingConfirmation, StatusPendingAppeal, StatusCompleted}
	for _, s := range open {
		if IsTerminal(s) {
			t.Errorf("IsTerminal(%s) = true, want false", s)
		}
	}
}

func TestCountsTowardScore(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		status Status
		want   bool
	}{
		{"pending deed excluded", KindGoodDeed, StatusPendingApproval, false},
		{"rewarded deed counts", KindGoodDeed, StatusCompleted, true},
		{"annulled deed excluded", KindGoodDeed, StatusAnnulled, false},
		{"open complaint counts", KindComplaint, StatusInProgress, true},
		{"compensated complaint still counts", KindComplaint, StatusCompensated, true},
		{"complaint in court still counts", KindComplaint, StatusPendingAppeal, true},
		{"annulled complaint excluded", KindComplaint, StatusAnnulled, false},
		{"judged complaint counts", KindComplaint, StatusJudgedValid, true},
		{"purchase counts", KindPurchase, StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountsTowardScore(tt.kind, tt.status); got != tt.want {
				t.Errorf("CountsTowardScore(%s, %s) = %v, want %v",
					tt.kind, tt.status, got, tt.want)
			}
		})
	}
}

// ─── Constructor Tests ──────────────────────────────────────────────────────

func TestNewComplaint(t *testing.T) {
	a := NewComplaint(Yanik, "late", "⏰", "забыл вынести мусор", "массаж ног", "spa", 25)

	if a.ID == "" {
		t.Error("complaint must get a client-generated id")
	}
	if a.Kind != KindComplaint {
		t.Errorf("Kind = %s, want %s", a.Kind, KindComplaint)
	}
	if a.Status != StatusInProgress {
		t.Errorf("Status = %s, want %s", a.Status, StatusInProgress)
	}
	if a.Points != -25 {
		t.Errorf("Points = %d, want -25 (penalty sign normalized)", a.Points)
	}
	if a.Appeal != nil {
		t.Error("appeal sub-record must be absent at creation")
	}
}

func TestNewGoodDeed(t *testing.T) {
	a := NewGoodDeed(Vikulya, "care", "❤️", "сделала завтрак")

	if a.Status != StatusPendingApproval {
		t.Errorf("Status = %s, want %s", a.Status, StatusPendingApproval)
	}
	if a.Points != 0 {
		t.Errorf("Points = %d, want 0 while awaiting approval", a.Points)
	}
}

func TestNewPurchase(t *testing.T) {
	item, ok := FindShopItem("frame_gold")
	if !ok {
		t.Fatal("frame_gold missing from catalog")
	}
	a := NewPurchase(Yanik, item)

	if a.Status != StatusCompleted {
		t.Errorf("Status = %s, want %s (purchases are born terminal)", a.Status, StatusCompleted)
	}
	if a.Points != -item.Price {
		t.Errorf("Points = %d, want %d", a.Points, -item.Price)
	}
	if a.Category != item.ID {
		t.Errorf("Category = %q, want the shop item id %q", a.Category, item.ID)
	}
}

func TestPartner(t *testing.T) {
	if Vikulya.Partner() != Yanik || Yanik.Partner() != Vikulya {
		t.Error("Partner must map each member to the other")
	}
}

func TestAppealComplete(t *testing.T) {
	a := Appeal{}
	if a.Complete() {
		t.Error("empty appeal must not be complete")
	}
	a.PlaintiffArgument = "это было нечестно"
	if a.Complete() {
		t.Error("one-sided appeal must not be complete")
	}
	a.DefendantArgument = "всё было честно"
	if !a.Complete() {
		t.Error("appeal with both arguments must be complete")
	}
}
