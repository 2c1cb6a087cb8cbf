// Package court resolves appealed complaints through an external
// reasoning oracle.
//
// The protocol is a single request/response: once both sides have filed
// their argument, Adjudicate sends the case to the oracle and collapses
// the appeal into a terminal status. There are no retries, no streaming
// and no partial verdicts — and no outcome in which the appeal stays
// unresolved. If the oracle errors, times out or returns garbage, the
// safe-default verdict applies: the original penalty stands. A silent
// limbo would be worse than a deterministic default ruling; that is a
// deliberate fairness/availability tradeoff, not an accident.
package court

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/infra/observability"
	"github.com/yomanFX/vikula2/internal/ledger"
)

// ─── Verdict Vocabulary ─────────────────────────────────────────────────────

// VerdictKind is one of the three rulings the oracle may return.
type VerdictKind string

const (
	// VerdictUphold keeps the original penalty unchanged.
	VerdictUphold VerdictKind = "UPHOLD"
	// VerdictDismiss voids the penalty entirely.
	VerdictDismiss VerdictKind = "DISMISS"
	// VerdictReduce lowers the penalty to a new magnitude.
	VerdictReduce VerdictKind = "REDUCE"
)

// ParseVerdictKind normalizes the oracle's verdict string. Earlier judge
// deployments answered keep/cancel, so those aliases stay accepted.
func ParseVerdictKind(s string) (VerdictKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uphold", "keep":
		return VerdictUphold, nil
	case "dismiss", "annul", "cancel":
		return VerdictDismiss, nil
	case "reduce":
		return VerdictReduce, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownVerdict, s)
}

// Verdict is the oracle's ruling.
type Verdict struct {
	Kind VerdictKind
	// NewMagnitude is the reduced penalty size; only meaningful for
	// VerdictReduce and only when HasMagnitude is set.
	NewMagnitude int
	HasMagnitude bool
	// Reasoning is stored verbatim into the appeal record.
	Reasoning string
}

// Request carries the case to the oracle: the activity's descriptive
// fields plus both arguments.
type Request struct {
	Kind              domain.Kind     `json:"kind"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	Points            int             `json:"points"`
	Subject           domain.Identity `json:"subject"`
	PlaintiffArgument string          `json:"plaintiff_argument"`
	DefendantArgument string          `json:"defendant_argument"`
}

// Oracle renders a verdict for a case. Any implementation satisfying this
// contract is substitutable: a hosted LLM, a rules engine, a human queue.
type Oracle interface {
	Judge(ctx context.Context, req Request) (Verdict, error)
}

// fallbackReasoning is recorded when the oracle could not be reached or
// could not be understood.
const fallbackReasoning = "A technical error occurred in the high court. The original judgment stands by default."

// ─── Court ──────────────────────────────────────────────────────────────────

// Court drives the appeal flow against the ledger store.
type Court struct {
	store   *ledger.Store
	oracle  Oracle
	timeout time.Duration
}

// DefaultTimeout bounds a single oracle call.
const DefaultTimeout = 30 * time.Second

// New creates a court. A non-positive timeout falls back to DefaultTimeout.
func New(store *ledger.Store, oracle Oracle, timeout time.Duration) *Court {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Court{store: store, oracle: oracle, timeout: timeout}
}

// Role identifies which side of the dispute is filing an argument.
type Role string

const (
	// RolePlaintiff is the side that escalated the case.
	RolePlaintiff Role = "PLAINTIFF"
	// RoleDefendant is the side defending the original activity.
	RoleDefendant Role = "DEFENDANT"
)

// SubmitArgument files one side's argument on a case already in court.
func (c *Court) SubmitArgument(ctx context.Context, id string, role Role, text string) (domain.Activity, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Activity{}, fmt.Errorf("%w: empty argument", domain.ErrIncompleteArguments)
	}

	a, err := c.store.Get(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	if a.Status != domain.StatusPendingAppeal || a.Appeal == nil {
		return domain.Activity{}, fmt.Errorf("%w: activity is not in court", domain.ErrIllegalTransition)
	}
	if a.Appeal.Resolved {
		return domain.Activity{}, fmt.Errorf("%w: appeal already resolved", domain.ErrIllegalTransition)
	}

	appeal := *a.Appeal
	switch role {
	case RolePlaintiff:
		appeal.PlaintiffArgument = text
	case RoleDefendant:
		appeal.DefendantArgument = text
	default:
		return domain.Activity{}, fmt.Errorf("unknown role %q", role)
	}
	return c.store.Update(ctx, id, ledger.Update{Appeal: &appeal})
}

// Adjudicate sends a fully-argued case to the oracle and applies the
// verdict. Preconditions: the activity is in PendingAppeal and both
// arguments are present; otherwise no request is made.
func (c *Court) Adjudicate(ctx context.Context, id string) (domain.Activity, error) {
	a, err := c.store.Get(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	if a.Status != domain.StatusPendingAppeal || a.Appeal == nil {
		return domain.Activity{}, fmt.Errorf("%w: activity is not in court", domain.ErrIllegalTransition)
	}
	if !a.Appeal.Complete() {
		return domain.Activity{}, domain.ErrIncompleteArguments
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	verdict, err := c.oracle.Judge(callCtx, Request{
		Kind:              a.Kind,
		Category:          a.Category,
		Description:       a.Description,
		Points:            a.Points,
		Subject:           a.Subject,
		PlaintiffArgument: a.Appeal.PlaintiffArgument,
		DefendantArgument: a.Appeal.DefendantArgument,
	})
	if err != nil {
		// Safe default: an unresolved appeal in limbo is worse than a
		// deterministic ruling. The original penalty stands.
		observability.OracleFailures.Inc()
		verdict = Verdict{Kind: VerdictUphold, Reasoning: fallbackReasoning}
	}

	status, points := applyVerdict(verdict, a.Points)

	appeal := *a.Appeal
	appeal.Resolved = true
	appeal.Reasoning = verdict.Reasoning

	updated, err := c.store.Update(ctx, id, ledger.Update{
		Status: &status,
		Points: &points,
		Appeal: &appeal,
	})
	if err != nil {
		return domain.Activity{}, err
	}
	observability.Verdicts.WithLabelValues(string(verdict.Kind)).Inc()
	return updated, nil
}

// applyVerdict maps a verdict onto the terminal status and final points.
func applyVerdict(v Verdict, original int) (domain.Status, int) {
	switch v.Kind {
	case VerdictDismiss:
		return domain.StatusAnnulled, 0
	case VerdictReduce:
		if v.HasMagnitude {
			return domain.StatusJudgedValid, -abs(v.NewMagnitude)
		}
		// Deterministic default when the oracle names no magnitude:
		// halve the penalty, rounding up. A policy choice, not an
		// oracle failure path.
		return domain.StatusJudgedValid, -((abs(original) + 1) / 2)
	default:
		return domain.StatusJudgedValid, original
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
