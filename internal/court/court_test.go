package court

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/ledger"
)

// ─── Fakes ──────────────────────────────────────────────────────────────────

// stubOracle returns a fixed verdict or error, recording what it was asked.
type stubOracle struct {
	verdict Verdict
	err     error
	lastReq Request
	sawCall bool
}

func (s *stubOracle) Judge(ctx context.Context, req Request) (Verdict, error) {
	s.sawCall = true
	s.lastReq = req
	if s.err != nil {
		return Verdict{}, s.err
	}
	return s.verdict, nil
}

func courtSetup(t *testing.T, oracle Oracle) (*Court, *ledger.Store) {
	t.Helper()
	store := ledger.New(ledger.NewMemoryBackend())
	return New(store, oracle, time.Second), store
}

// appealedComplaint creates a complaint already in court with both
// arguments filed.
func appealedComplaint(t *testing.T, store *ledger.Store, penalty int) domain.Activity {
	t.Helper()
	a := domain.NewComplaint(domain.Vikulya, "ignore", "👻", "игнорировала весь вечер", "ужин", "restaurant", penalty)
	a.Status = domain.StatusPendingAppeal
	a.Appeal = &domain.Appeal{
		PlaintiffArgument: "я была занята работой",
		DefendantArgument: "могла бы предупредить",
	}
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

// ─── Adjudication Tests ─────────────────────────────────────────────────────

func TestAdjudicateUphold(t *testing.T) {
	oracle := &stubOracle{verdict: Verdict{Kind: VerdictUphold, Reasoning: "Жалоба обоснована."}}
	c, store := courtSetup(t, oracle)
	a := appealedComplaint(t, store, 40)

	got, err := c.Adjudicate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if got.Status != domain.StatusJudgedValid {
		t.Errorf("status = %s, want JUDGED_VALID", got.Status)
	}
	if got.Points != -40 {
		t.Errorf("points = %d, want original -40", got.Points)
	}
	if !got.Appeal.Resolved {
		t.Error("appeal must be resolved")
	}
	if got.Appeal.Reasoning != "Жалоба обоснована." {
		t.Errorf("reasoning = %q, want oracle reasoning verbatim", got.Appeal.Reasoning)
	}
}

func TestAdjudicateDismiss(t *testing.T) {
	oracle := &stubOracle{verdict: Verdict{Kind: VerdictDismiss, Reasoning: "Претензия надумана."}}
	c, store := courtSetup(t, oracle)
	a := appealedComplaint(t, store, 40)

	got, err := c.Adjudicate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if got.Status != domain.StatusAnnulled {
		t.Errorf("status = %s, want ANNULLED", got.Status)
	}
	if got.Points != 0 {
		t.Errorf("points = %d, want 0", got.Points)
	}
	if !got.Appeal.Resolved {
		t.Error("appeal must be resolved")
	}
}

func TestAdjudicateReduce(t *testing.T) {
	tests := []struct {
		name       string
		penalty    int
		verdict    Verdict
		wantPoints int
	}{
		{
			name:       "oracle supplies magnitude",
			penalty:    40,
			verdict:    Verdict{Kind: VerdictReduce, NewMagnitude: 10, HasMagnitude: true},
			wantPoints: -10,
		},
		{
			name:       "magnitude sign is normalized",
			penalty:    40,
			verdict:    Verdict{Kind: VerdictReduce, NewMagnitude: -10, HasMagnitude: true},
			wantPoints: -10,
		},
		{
			name:       "fallback halves even penalty",
			penalty:    40,
			verdict:    Verdict{Kind: VerdictReduce},
			wantPoints: -20,
		},
		{
			name:       "fallback rounds odd penalty up",
			penalty:    35,
			verdict:    Verdict{Kind: VerdictReduce},
			wantPoints: -18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := courtSetup(t, &stubOracle{verdict: tt.verdict})
			a := appealedComplaint(t, store, tt.penalty)

			got, err := c.Adjudicate(context.Background(), a.ID)
			if err != nil {
				t.Fatalf("Adjudicate: %v", err)
			}
			if got.Status != domain.StatusJudgedValid {
				t.Errorf("status = %s, want JUDGED_VALID", got.Status)
			}
			if got.Points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.Points, tt.wantPoints)
			}
		})
	}
}

func TestAdjudicateSafeDefaultOnOracleFailure(t *testing.T) {
	oracle := &stubOracle{err: errors.New("judge fell asleep")}
	c, store := courtSetup(t, oracle)
	a := appealedComplaint(t, store, 40)

	got, err := c.Adjudicate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Adjudicate must not surface oracle failures, got %v", err)
	}
	if got.Status != domain.StatusJudgedValid {
		t.Errorf("status = %s, want JUDGED_VALID (safe default)", got.Status)
	}
	if got.Points != -40 {
		t.Errorf("points = %d, want original penalty unchanged", got.Points)
	}
	if !got.Appeal.Resolved {
		t.Error("appeal must be resolved even when the oracle fails")
	}
	if got.Appeal.Reasoning != fallbackReasoning {
		t.Errorf("reasoning = %q, want the system-failure explanation", got.Appeal.Reasoning)
	}
}

func TestAdjudicateSafeDefaultOnTimeout(t *testing.T) {
	slow := oracleFunc(func(ctx context.Context, req Request) (Verdict, error) {
		<-ctx.Done()
		return Verdict{}, ctx.Err()
	})
	store := ledger.New(ledger.NewMemoryBackend())
	c := New(store, slow, 20*time.Millisecond)
	a := appealedComplaint(t, store, 30)

	got, err := c.Adjudicate(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	if got.Status != domain.StatusJudgedValid || got.Points != -30 || !got.Appeal.Resolved {
		t.Errorf("timeout must resolve as safe default, got %+v", got)
	}
}

type oracleFunc func(ctx context.Context, req Request) (Verdict, error)

func (f oracleFunc) Judge(ctx context.Context, req Request) (Verdict, error) { return f(ctx, req) }

func TestAdjudicatePreconditions(t *testing.T) {
	oracle := &stubOracle{verdict: Verdict{Kind: VerdictUphold}}
	c, store := courtSetup(t, oracle)
	ctx := context.Background()

	t.Run("not in court", func(t *testing.T) {
		a := domain.NewComplaint(domain.Yanik, "late", "⏰", "опоздал", "кофе", "coffee", 10)
		if err := store.Create(ctx, a); err != nil {
			t.Fatal(err)
		}
		_, err := c.Adjudicate(ctx, a.ID)
		if !errors.Is(err, domain.ErrIllegalTransition) {
			t.Fatalf("Adjudicate = %v, want ErrIllegalTransition", err)
		}
	})

	t.Run("missing defendant argument", func(t *testing.T) {
		a := domain.NewComplaint(domain.Yanik, "late", "⏰", "опоздал", "кофе", "coffee", 10)
		a.Status = domain.StatusPendingAppeal
		a.Appeal = &domain.Appeal{PlaintiffArgument: "несправедливо"}
		if err := store.Create(ctx, a); err != nil {
			t.Fatal(err)
		}
		oracle.sawCall = false
		_, err := c.Adjudicate(ctx, a.ID)
		if !errors.Is(err, domain.ErrIncompleteArguments) {
			t.Fatalf("Adjudicate = %v, want ErrIncompleteArguments", err)
		}
		if oracle.sawCall {
			t.Error("incomplete appeal must not reach the oracle")
		}
	})
}

func TestAdjudicateSendsCaseFields(t *testing.T) {
	oracle := &stubOracle{verdict: Verdict{Kind: VerdictUphold}}
	c, store := courtSetup(t, oracle)
	a := appealedComplaint(t, store, 40)

	if _, err := c.Adjudicate(context.Background(), a.ID); err != nil {
		t.Fatalf("Adjudicate: %v", err)
	}
	req := oracle.lastReq
	if req.Category != a.Category || req.Description != a.Description ||
		req.Points != a.Points || req.Subject != a.Subject {
		t.Errorf("oracle request missing case fields: %+v", req)
	}
	if req.PlaintiffArgument == "" || req.DefendantArgument == "" {
		t.Error("oracle request must carry both arguments")
	}
}

// ─── Argument Submission Tests ──────────────────────────────────────────────

func TestSubmitArgument(t *testing.T) {
	c, store := courtSetup(t, &stubOracle{verdict: Verdict{Kind: VerdictUphold}})
	ctx := context.Background()

	a := domain.NewComplaint(domain.Vikulya, "cold", "🧊", "холодность", "объятия", "favorite", 20)
	a.Status = domain.StatusPendingAppeal
	a.Appeal = &domain.Appeal{}
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SubmitArgument(ctx, a.ID, RolePlaintiff, "это было нечестно"); err != nil {
		t.Fatalf("plaintiff argument: %v", err)
	}
	got, err := c.SubmitArgument(ctx, a.ID, RoleDefendant, "всё было честно")
	if err != nil {
		t.Fatalf("defendant argument: %v", err)
	}
	if !got.Appeal.Complete() {
		t.Errorf("appeal should be complete, got %+v", got.Appeal)
	}
}

func TestSubmitArgumentValidation(t *testing.T) {
	c, store := courtSetup(t, &stubOracle{verdict: Verdict{Kind: VerdictUphold}})
	ctx := context.Background()

	a := domain.NewComplaint(domain.Vikulya, "cold", "🧊", "холодность", "объятия", "favorite", 20)
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	if _, err := c.SubmitArgument(ctx, a.ID, RolePlaintiff, "аргумент"); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Errorf("argument outside court = %v, want ErrIllegalTransition", err)
	}
	if _, err := c.SubmitArgument(ctx, a.ID, RolePlaintiff, "   "); !errors.Is(err, domain.ErrIncompleteArguments) {
		t.Errorf("blank argument = %v, want ErrIncompleteArguments", err)
	}
}

// ─── Verdict Parsing Tests ──────────────────────────────────────────────────

func TestParseVerdictKind(t *testing.T) {
	tests := []struct {
		in      string
		want    VerdictKind
		wantErr bool
	}{
		{"uphold", VerdictUphold, false},
		{"keep", VerdictUphold, false},
		{"UPHOLD", VerdictUphold, false},
		{"dismiss", VerdictDismiss, false},
		{"annul", VerdictDismiss, false},
		{"cancel", VerdictDismiss, false},
		{"reduce", VerdictReduce, false},
		{" Reduce ", VerdictReduce, false},
		{"guilty", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVerdictKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnknownVerdict) {
					t.Fatalf("ParseVerdictKind(%q) err = %v, want ErrUnknownVerdict", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseVerdictKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

// ─── HTTP Oracle Tests ──────────────────────────────────────────────────────

func TestHTTPOracleJudge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verdict":"reduce","new_magnitude":15,"reasoning":"Обе стороны хороши."}`))
	}))
	defer srv.Close()

	o := NewHTTPOracle(srv.URL, time.Second)
	v, err := o.Judge(context.Background(), Request{Points: -40})
	if err != nil {
		t.Fatalf("Judge: %v", err)
	}
	if v.Kind != VerdictReduce || !v.HasMagnitude || v.NewMagnitude != 15 {
		t.Errorf("verdict = %+v, want reduce to 15", v)
	}
	if v.Reasoning != "Обе стороны хороши." {
		t.Errorf("reasoning = %q", v.Reasoning)
	}
}

func TestHTTPOracleErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>nope</html>"))
		}},
		{"unknown verdict", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"verdict":"guilty","reasoning":"??"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			o := NewHTTPOracle(srv.URL, time.Second)
			_, err := o.Judge(context.Background(), Request{})
			if err == nil {
				t.Fatal("Judge must fail so the court applies the safe default")
			}
		})
	}
}
