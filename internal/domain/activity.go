// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the module — it depends on nothing.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ─── Identity ───────────────────────────────────────────────────────────────

// Identity is one of the two household members. The model is hard-wired to
// exactly two participants; it is a closed set, not a free-form string.
type Identity string

const (
	Vikulya Identity = "Викуля"
	Yanik   Identity = "Яник"
)

// Identities lists both members in canonical order.
func Identities() [2]Identity { return [2]Identity{Vikulya, Yanik} }

// Partner returns the other household member.
func (i Identity) Partner() Identity {
	if i == Vikulya {
		return Yanik
	}
	return Vikulya
}

// Valid reports whether i names one of the two members.
func (i Identity) Valid() bool { return i == Vikulya || i == Yanik }

// ─── Activity Kinds ─────────────────────────────────────────────────────────

// Kind classifies a ledger record. It never changes after creation.
type Kind string

const (
	KindComplaint Kind = "COMPLAINT"
	KindGoodDeed  Kind = "GOOD_DEED"
	KindPurchase  Kind = "PURCHASE"
)

// Valid reports whether k is a known activity kind.
func (k Kind) Valid() bool {
	return k == KindComplaint || k == KindGoodDeed || k == KindPurchase
}

// ─── Status Lifecycle ───────────────────────────────────────────────────────

// Status is the lifecycle state of an activity. The enumeration is global
// but not every status is reachable from every kind — see CanTransition.
type Status string

const (
	// GoodDeed entry state: reward withheld until the partner approves.
	StatusPendingApproval Status = "PENDING_APPROVAL"

	// Complaint entry state.
	StatusInProgress Status = "IN_PROGRESS"

	// Complaint acknowledged by the accused.
	StatusApproved Status = "APPROVED"

	// Accused claims the remedy is done, awaiting the complainant's sign-off.
	StatusPendingConfirmation Status = "PENDING_CONFIRMATION"

	// Escalated to court; only the adjudication flow may exit this state.
	StatusPendingAppeal Status = "PENDING_APPEAL"

	// GoodDeed approved with a reward, or a Purchase booked. Also ends
	// the Purchase flow: purchases are born Completed and never move.
	StatusCompleted Status = "COMPLETED"

	// Complaint remedy delivered and confirmed.
	StatusCompensated Status = "COMPENSATED"

	// Voided — by the partner (rejected deed) or by a dismiss verdict.
	StatusAnnulled Status = "ANNULLED"

	// Court upheld (or reduced) the penalty.
	StatusJudgedValid Status = "JUDGED_VALID"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusInProgress, StatusApproved,
		StatusPendingConfirmation, StatusPendingAppeal, StatusCompleted,
		StatusCompensated, StatusAnnulled, StatusJudgedValid:
		return true
	}
	return false
}

// IsTerminal reports whether s ends an activity's lifecycle for good.
// Compensated, Annulled and JudgedValid admit no further transitions and
// gate appealability (a terminal activity can never go to court).
// Completed ends the GoodDeed and Purchase flows too, but is tracked by
// the transition table rather than this predicate.
func IsTerminal(s Status) bool {
	return s == StatusCompensated || s == StatusAnnulled || s == StatusJudgedValid
}

// CountsTowardScore reports whether an activity in the given state
// contributes to the derived trust score. PendingApproval deeds have not
// been granted their reward yet, and Annulled activities of any kind are
// voided — both are excluded. This is the single source of truth; do not
// re-derive the exclusion list elsewhere.
func CountsTowardScore(_ Kind, status Status) bool {
	return status != StatusPendingApproval && status != StatusAnnulled
}

// transitions maps, per kind, every legal (from → to) edge.
var transitions = map[Kind]map[Status][]Status{
	KindGoodDeed: {
		StatusPendingApproval: {StatusCompleted, StatusAnnulled},
	},
	KindComplaint: {
		StatusInProgress:          {StatusApproved, StatusPendingConfirmation, StatusPendingAppeal},
		StatusApproved:            {StatusPendingConfirmation, StatusPendingAppeal},
		StatusPendingConfirmation: {StatusCompensated, StatusPendingAppeal},
		StatusPendingAppeal:       {StatusAnnulled, StatusJudgedValid},
	},
	// Purchases are born Completed and have no edges.
	KindPurchase: {},
}

// CanTransition reports whether an activity of the given kind may move
// from one status to another. It does not treat from == to as legal;
// callers decide whether a same-state request is a no-op.
func CanTransition(kind Kind, from, to Status) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// CourtOnly reports whether the edge may only be taken by the
// adjudication flow. Users never move an activity out of PendingAppeal
// directly — the court verdict does.
func CourtOnly(from, to Status) bool {
	return from == StatusPendingAppeal &&
		(to == StatusAnnulled || to == StatusJudgedValid)
}

// ─── Activity ───────────────────────────────────────────────────────────────

// Appeal is the court sub-record of a Complaint. It is absent until the
// activity first enters PendingAppeal; once present it is never removed,
// only mutated (arguments first, then resolved plus reasoning).
type Appeal struct {
	PlaintiffArgument string `json:"plaintiff_argument"`
	DefendantArgument string `json:"defendant_argument"`
	Resolved          bool   `json:"resolved"`
	Reasoning         string `json:"reasoning,omitempty"`
}

// Complete reports whether both sides have filed their argument.
func (a Appeal) Complete() bool {
	return a.PlaintiffArgument != "" && a.DefendantArgument != ""
}

// Activity is one ledger record — a Complaint, GoodDeed or Purchase.
// After creation only Status, Points and Appeal are ever mutated.
type Activity struct {
	ID       string   `json:"id"`
	Subject  Identity `json:"subject"` // accused / doer / buyer
	Kind     Kind     `json:"kind"`
	Category string   `json:"category"` // for Purchase: the shop item id
	// Presentation concern, carried through but never computed here.
	CategoryIcon string `json:"category_icon,omitempty"`
	Description  string `json:"description"`

	// Remedy owed; Complaint only.
	Compensation     string `json:"compensation,omitempty"`
	CompensationIcon string `json:"compensation_icon,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	Status    Status    `json:"status"`

	// Negative for Complaint and Purchase, positive for a rewarded
	// GoodDeed, zero while a deed awaits approval.
	Points int `json:"points"`

	Appeal *Appeal `json:"appeal,omitempty"`

	// Opaque reference into the object store; never interpreted here.
	EvidenceImage string `json:"evidence_image,omitempty"`
}

// NewComplaint builds a complaint against the accused. Penalty points are
// fixed at creation; only a court verdict may later override them.
func NewComplaint(accused Identity, category, categoryIcon, description, compensation, compensationIcon string, penalty int) Activity {
	if penalty > 0 {
		penalty = -penalty
	}
	return Activity{
		ID:               uuid.NewString(),
		Subject:          accused,
		Kind:             KindComplaint,
		Category:         category,
		CategoryIcon:     categoryIcon,
		Description:      description,
		Compensation:     compensation,
		CompensationIcon: compensationIcon,
		CreatedAt:        time.Now().UTC(),
		Status:           StatusInProgress,
		Points:           penalty,
	}
}

// NewGoodDeed builds a deed awaiting partner approval. Points stay zero
// until the approving transition assigns the reward.
func NewGoodDeed(doer Identity, category, categoryIcon, description string) Activity {
	return Activity{
		ID:           uuid.NewString(),
		Subject:      doer,
		Kind:         KindGoodDeed,
		Category:     category,
		CategoryIcon: categoryIcon,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
		Status:       StatusPendingApproval,
		Points:       0,
	}
}

// NewPurchase books a shop purchase. Purchases are born in a terminal
// state and never transition.
func NewPurchase(buyer Identity, item ShopItem) Activity {
	return Activity{
		ID:           uuid.NewString(),
		Subject:      buyer,
		Kind:         KindPurchase,
		Category:     item.ID,
		CategoryIcon: item.Icon,
		Description:  item.Label,
		CreatedAt:    time.Now().UTC(),
		Status:       StatusCompleted,
		Points:       -item.Price,
	}
}
