package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"wellness/internal/domain/athlete"
	"wellness/internal/domain/selection"
)

// SelectionLockStore defines the lock store interface needed by
// selection reconciliation.
type SelectionLockStore interface {
	Get(key string) string
	Set(key, id string)
	Clear(key string)
}

// ReconcileSelectionInput carries input for the selection reconciler.
// Candidates is the already-filtered eligible athlete list for the
// context; RequestedID is the athlete the user just picked, empty when
// the form is merely re-rendering.
type ReconcileSelectionInput struct {
	Key         selection.Key
	Candidates  []athlete.Athlete
	RequestedID string
}

// ReconcileSelectionResult carries the resolved selection.
type ReconcileSelectionResult struct {
	Selected athlete.Athlete
	// Reset is true when the remembered selection was no longer a
	// candidate and the selection fell back to the first one.
	Reset bool
}

// ReconcileSelectionDeps holds dependencies for ReconcileSelection.
type ReconcileSelectionDeps struct {
	Locks SelectionLockStore
}

var (
	ErrNoEligibleAthletes = errors.New("no eligible athletes for this context")
	ErrBadSelectionKey    = errors.New("selection context key is incomplete")
)

// ExecuteReconcileSelection resolves which athlete a form should show
// for its context. An explicit pick always wins and is remembered; an
// existing lock survives any reordering or shrinking of the candidate
// list as long as its athlete is still in it; a lock whose athlete
// dropped out resets to the first candidate. The lock is rewritten on
// every call so the store always reflects what the form shows.
// PRE: Candidates carries only eligible athletes for Key's context
// POST: The returned athlete is in Candidates and is the locked one
func ExecuteReconcileSelection(ctx context.Context, input ReconcileSelectionInput, deps ReconcileSelectionDeps) (ReconcileSelectionResult, error) {
	if input.Key.IsZero() {
		return ReconcileSelectionResult{}, ErrBadSelectionKey
	}
	key := input.Key.String()

	if len(input.Candidates) == 0 {
		// Nothing to select; a stale lock for the context would only
		// confuse the next render with a non-empty list.
		deps.Locks.Clear(key)
		return ReconcileSelectionResult{}, ErrNoEligibleAthletes
	}

	if input.RequestedID != "" {
		if picked, ok := findCandidate(input.Candidates, input.RequestedID); ok {
			deps.Locks.Set(key, picked.ID)
			return ReconcileSelectionResult{Selected: picked}, nil
		}
		slog.Warn("selection_event", "event", "requested_not_eligible", "key", key, "athlete_id", input.RequestedID)
	}

	if locked := deps.Locks.Get(key); locked != "" {
		if kept, ok := findCandidate(input.Candidates, locked); ok {
			deps.Locks.Set(key, kept.ID)
			return ReconcileSelectionResult{Selected: kept}, nil
		}
	}

	// No usable memory for this context: deterministic fallback to the
	// first candidate, which the store ordering keeps stable.
	first := input.Candidates[0]
	reset := deps.Locks.Get(key) != ""
	deps.Locks.Set(key, first.ID)
	if reset {
		slog.Info("selection_event", "event", "selection_reset", "key", key, "athlete_id", first.ID)
	}
	return ReconcileSelectionResult{Selected: first, Reset: reset}, nil
}

func findCandidate(candidates []athlete.Athlete, id string) (athlete.Athlete, bool) {
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return athlete.Athlete{}, false
}
