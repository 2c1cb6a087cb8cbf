package ledger

import (
	"context"
	"sync"

	"github.com/yomanFX/vikula2/internal/domain"
)

// MemoryBackend is an in-process Backend. It backs demo deployments with
// no persistence configured, and the test suites of every package that
// needs a ledger.
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string]domain.Activity
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]domain.Activity)}
}

// List returns all stored activities in unspecified order.
func (b *MemoryBackend) List(ctx context.Context) ([]domain.Activity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Activity, 0, len(b.records))
	for _, a := range b.records {
		out = append(out, a)
	}
	return out, nil
}

// Insert stores a new activity. Like the remote table stores this stands
// in for, inserting an existing id overwrites (last writer wins).
func (b *MemoryBackend) Insert(ctx context.Context, a domain.Activity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[a.ID] = a
	return nil
}

// UpdateFields patches one activity by id.
func (b *MemoryBackend) UpdateFields(ctx context.Context, id string, u Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.records[id]
	if !ok {
		return domain.ErrUnknownActivity
	}
	u.Apply(&a)
	b.records[id] = a
	return nil
}

// Get returns one stored activity by id, for inspection.
func (b *MemoryBackend) Get(id string) (domain.Activity, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.records[id]
	return a, ok
}
