// Package score derives the trust score from a ledger snapshot.
//
// The engine is pure and total: same snapshot in, same score out. It holds
// no state of its own and is expected to be re-run on every read — a full
// pass over the ledger is O(n) and the ledger is two people's squabbles,
// not a transaction log.
package score

import (
	"github.com/yomanFX/vikula2/internal/domain"
)

// Baseline is the score every member starts from.
const Baseline = 500

// Floor is the lower clamp. There is deliberately no ceiling: the display
// tiers top out at 1000 but the score itself keeps growing.
const Floor = 0

// Compute returns who's current trust score over the given snapshot.
// Rewarded deeds add, complaints and purchases subtract; activities that
// are Annulled or still awaiting approval are skipped entirely.
func Compute(ledger []domain.Activity, who domain.Identity) int {
	s := Baseline
	for _, act := range ledger {
		if act.Subject != who {
			continue
		}
		if !domain.CountsTowardScore(act.Kind, act.Status) {
			continue
		}
		switch act.Kind {
		case domain.KindGoodDeed:
			s += abs(act.Points)
		case domain.KindComplaint, domain.KindPurchase:
			s -= abs(act.Points)
		}
	}
	if s < Floor {
		return Floor
	}
	return s
}

// TierFor is a convenience wrapper pairing the score with its display band.
func TierFor(ledger []domain.Activity, who domain.Identity) (int, domain.Tier) {
	s := Compute(ledger, who)
	return s, domain.TierFor(s)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
