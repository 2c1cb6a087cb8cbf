package ledger

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/infra/observability"
	"github.com/yomanFX/vikula2/internal/score"
)

// Mirror is the persisted local copy kept for offline resilience. It is
// second-class: the remote backend wins on any conflict.
type Mirror interface {
	UpsertActivity(a domain.Activity) error
	LoadAll() ([]domain.Activity, error)
}

// Store is the process-wide ledger: remote backend, in-memory cache,
// optional local mirror. All mutations flow through it.
type Store struct {
	backend Backend
	cache   *gocache.Cache
	mirror  Mirror

	mu        sync.Mutex // serializes refresh/reconcile
	refreshed bool       // at least one successful read happened

	listenerMu sync.Mutex
	listeners  []func()
}

// Option configures a Store.
type Option func(*Store)

// WithMirror attaches a persisted local copy, updated on every successful
// write and used as a fallback snapshot when the backend is unreachable.
func WithMirror(m Mirror) Option {
	return func(s *Store) { s.mirror = m }
}

// New creates a ledger store over the given backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a callback fired after every successful mutation or
// refresh. Used to drive best-effort UI notifications; callbacks must not
// block.
func (s *Store) OnChange(fn func()) {
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenerMu.Unlock()
}

func (s *Store) fireChange() {
	s.listenerMu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.listenerMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ─── Reads ──────────────────────────────────────────────────────────────────

// List returns the full ledger, newest first. The first call (and any call
// before a successful refresh) hits the backend; afterwards reads are
// served from cache and kept fresh by the background loop.
func (s *Store) List(ctx context.Context) ([]domain.Activity, error) {
	s.mu.Lock()
	cold := !s.refreshed
	s.mu.Unlock()
	if cold {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.snapshot(), nil
}

// Get returns one activity by id.
func (s *Store) Get(ctx context.Context, id string) (domain.Activity, error) {
	if _, err := s.List(ctx); err != nil {
		return domain.Activity{}, err
	}
	if v, ok := s.cache.Get(id); ok {
		return v.(domain.Activity), nil
	}
	return domain.Activity{}, domain.ErrUnknownActivity
}

// Scores derives both members' current scores and tiers from the ledger.
func (s *Store) Scores(ctx context.Context) (map[domain.Identity]ScoreCard, error) {
	ledger, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	cards := make(map[domain.Identity]ScoreCard, 2)
	for _, who := range domain.Identities() {
		sc, tier := score.TierFor(ledger, who)
		cards[who] = ScoreCard{Score: sc, Tier: tier}
		observability.Score.WithLabelValues(string(who)).Set(float64(sc))
	}
	return cards, nil
}

// ScoreCard pairs a derived score with its display tier.
type ScoreCard struct {
	Score int         `json:"score"`
	Tier  domain.Tier `json:"tier"`
}

// snapshot returns the cached ledger sorted by creation time descending,
// id as tie-break so the order is stable across clients.
func (s *Store) snapshot() []domain.Activity {
	items := s.cache.Items()
	out := make([]domain.Activity, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(domain.Activity))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Refresh pulls the authoritative copy from the backend and reconciles it
// into the cache: every remote record overwrites its local counterpart,
// local-only records (optimistic writes that have not propagated yet)
// survive until a later refresh confirms or replaces them.
//
// If the backend is unreachable and the cache is still cold, the mirror
// snapshot is served instead so the app keeps working offline.
//
// Listeners fire after the lock is released; a slow listener must never
// stall reads.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.reconcile(ctx); err != nil {
		return err
	}
	s.fireChange()
	return nil
}

// reconcile does the locked cache-and-mirror work of Refresh.
func (s *Store) reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	remote, err := s.backend.List(ctx)
	if err != nil {
		observability.LedgerFailures.Inc()
		if !s.refreshed && s.mirror != nil {
			local, lerr := s.mirror.LoadAll()
			if lerr == nil {
				for _, a := range local {
					s.cache.SetDefault(a.ID, a)
				}
				s.refreshed = true
				log.Printf("ledger: backend unreachable, serving %d activities from local mirror", len(local))
				observability.LedgerSize.Set(float64(s.cache.ItemCount()))
				return nil
			}
		}
		return fmt.Errorf("%w: refresh: %v", domain.ErrPersistence, err)
	}

	for _, a := range remote {
		s.cache.SetDefault(a.ID, a) // remote wins, dedup by id
		if s.mirror != nil {
			if err := s.mirror.UpsertActivity(a); err != nil {
				log.Printf("ledger: mirror upsert %s: %v", a.ID, err)
			}
		}
	}
	s.refreshed = true
	observability.LedgerRefreshes.Inc()
	observability.LedgerSize.Set(float64(s.cache.ItemCount()))
	return nil
}

// ─── Writes ─────────────────────────────────────────────────────────────────

// Create appends a new activity. The cache is updated optimistically in
// tandem with the write attempt; a failed write leaves the optimistic
// entry to be reconciled (remote wins) on the next successful refresh.
func (s *Store) Create(ctx context.Context, a domain.Activity) error {
	s.cache.SetDefault(a.ID, a)
	if err := s.backend.Insert(ctx, a); err != nil {
		observability.LedgerFailures.Inc()
		return fmt.Errorf("%w: insert %s: %v", domain.ErrPersistence, a.ID, err)
	}
	if s.mirror != nil {
		if err := s.mirror.UpsertActivity(a); err != nil {
			log.Printf("ledger: mirror upsert %s: %v", a.ID, err)
		}
	}
	observability.ActivitiesCreated.WithLabelValues(string(a.Kind)).Inc()
	observability.LedgerSize.Set(float64(s.cache.ItemCount()))
	s.fireChange()
	return nil
}

// Update patches the mutable fields of one activity and returns the
// updated record. Unknown ids fail before any write is attempted.
func (s *Store) Update(ctx context.Context, id string, u Update) (domain.Activity, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	u.Apply(&current)

	s.cache.SetDefault(id, current)
	if err := s.backend.UpdateFields(ctx, id, u); err != nil {
		observability.LedgerFailures.Inc()
		return domain.Activity{}, fmt.Errorf("%w: update %s: %v", domain.ErrPersistence, id, err)
	}
	if s.mirror != nil {
		if err := s.mirror.UpsertActivity(current); err != nil {
			log.Printf("ledger: mirror upsert %s: %v", id, err)
		}
	}
	s.fireChange()
	return current, nil
}

// ─── Background refresh ─────────────────────────────────────────────────────

// Run refreshes the ledger every interval and whenever the wake channel
// fires (the change-notification channel is best-effort; losing it only
// degrades to polling). Blocks until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration, wake <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-wake:
		}
		if err := s.Refresh(ctx); err != nil {
			log.Printf("ledger: background refresh: %v", err)
		}
	}
}
