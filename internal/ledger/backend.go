// Package ledger implements the activity store: a remote authoritative
// backend fronted by an in-memory cache and a persisted local mirror.
//
// There is no central server enforcing invariants — two independent
// clients write to the same backend with last-writer-wins field semantics.
// The store compensates with an explicit reconciliation rule: records are
// deduplicated by id, the later insert wins, and on refresh the remote
// copy wins over anything held locally.
package ledger

import (
	"context"

	"github.com/yomanFX/vikula2/internal/domain"
)

// Update names the mutable fields of an activity. Nil fields are left
// untouched; everything else about an activity is immutable after creation.
type Update struct {
	Status *domain.Status
	Points *int
	Appeal *domain.Appeal
}

// Backend is the persistence collaborator. Anything that can list, insert
// and patch activities with eventual-consistency semantics qualifies; the
// store assumes nothing else about it.
type Backend interface {
	// List returns all activities. Order is not required; the store
	// re-sorts by creation time.
	List(ctx context.Context) ([]domain.Activity, error)

	// Insert persists a new activity.
	Insert(ctx context.Context, a domain.Activity) error

	// UpdateFields patches the mutable fields of one activity by id.
	UpdateFields(ctx context.Context, id string, u Update) error
}

// Apply copies the non-nil fields of u onto a.
func (u Update) Apply(a *domain.Activity) {
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Points != nil {
		a.Points = *u.Points
	}
	if u.Appeal != nil {
		ap := *u.Appeal
		a.Appeal = &ap
	}
}
