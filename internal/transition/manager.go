// Package transition enforces the status lifecycle of ledger activities.
//
// Every user-triggered status change goes through Manager.Request:
//  1. A request targeting the current status is a no-op (retry-safe).
//  2. Legality is checked against the domain transition table before any
//     write; a stale client fails loudly rather than corrupting state.
//  3. Entering PendingAppeal initializes the appeal sub-record in the
//     same write — the court flow depends on it existing.
//  4. Approving a GoodDeed assigns the reviewer-chosen reward; no other
//     transition touches points (court verdicts go through the court
//     package, not here).
package transition

import (
	"context"
	"fmt"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/infra/observability"
	"github.com/yomanFX/vikula2/internal/ledger"
)

// Manager drives status transitions through the ledger store.
type Manager struct {
	store *ledger.Store
}

// New creates a transition manager.
func New(store *ledger.Store) *Manager {
	return &Manager{store: store}
}

// RequestOption carries optional transition parameters.
type RequestOption func(*requestParams)

type requestParams struct {
	reward int
}

// WithReward sets the reward granted when approving a good deed.
func WithReward(points int) RequestOption {
	return func(p *requestParams) { p.reward = points }
}

// Request moves an activity to target on behalf of actor and returns the
// updated record. Requesting the current status is a no-op; an illegal
// target fails with ErrIllegalTransition and leaves the ledger untouched.
func (m *Manager) Request(ctx context.Context, id string, target domain.Status, actor domain.Identity, opts ...RequestOption) (domain.Activity, error) {
	var params requestParams
	for _, opt := range opts {
		opt(&params)
	}

	if !actor.Valid() {
		return domain.Activity{}, fmt.Errorf("unknown actor %q", actor)
	}
	if !target.Valid() {
		return domain.Activity{}, fmt.Errorf("%w: unknown status %q", domain.ErrIllegalTransition, target)
	}

	a, err := m.store.Get(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}

	// Idempotent on the happy path: the concurrent client already got
	// us here, there is nothing left to do and no side effect to repeat.
	if a.Status == target {
		return a, nil
	}

	if domain.CourtOnly(a.Status, target) || !domain.CanTransition(a.Kind, a.Status, target) {
		observability.IllegalTransitions.Inc()
		return domain.Activity{}, fmt.Errorf("%w: %s %s → %s", domain.ErrIllegalTransition, a.Kind, a.Status, target)
	}

	u := ledger.Update{Status: &target}

	if target == domain.StatusPendingAppeal && a.Appeal == nil {
		u.Appeal = &domain.Appeal{}
	}

	if a.Kind == domain.KindGoodDeed && target == domain.StatusCompleted {
		if actor == a.Subject {
			return domain.Activity{}, domain.ErrSelfApproval
		}
		if params.reward <= 0 {
			return domain.Activity{}, domain.ErrRewardRequired
		}
		u.Points = &params.reward
	}

	updated, err := m.store.Update(ctx, id, u)
	if err != nil {
		return domain.Activity{}, err
	}
	observability.Transitions.WithLabelValues(string(target)).Inc()
	return updated, nil
}
