package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Transition errors
	ErrIllegalTransition = errors.New("status change not permitted from current status")
	ErrUnknownActivity   = errors.New("activity not found in ledger")
	ErrRewardRequired    = errors.New("approving a good deed requires a positive reward")
	ErrSelfApproval      = errors.New("a good deed cannot be approved by its own doer")

	// Adjudication errors
	ErrIncompleteArguments = errors.New("appeal requires both arguments before adjudication")
	ErrUnknownVerdict      = errors.New("oracle returned an unrecognized verdict")
	ErrOracleFailure       = errors.New("reasoning oracle unavailable")

	// Ledger errors
	ErrPersistence = errors.New("backing store rejected the operation")

	// Shop errors
	ErrUnknownShopItem   = errors.New("shop item not found")
	ErrInsufficientScore = errors.New("score too low for this purchase")
)
