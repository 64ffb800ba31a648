package selection

import "strings"

// Action values for the selection context.
const (
	ActionCheckIn  = "check-in"
	ActionCheckOut = "check-out"
)

// Key scopes a locked athlete selection. SessionID keeps tabs of the
// same browser apart; a change of roster, action or shift produces a
// different context and therefore an independent lock.
type Key struct {
	SessionID string
	Roster    string
	Action    string
	Shift     string
}

// String renders the stable context key used to index the lock store.
// INVARIANT: Key fields are not mutated
func (k Key) String() string {
	parts := []string{k.SessionID, k.Roster, k.Action, k.Shift}
	return strings.ToLower(strings.Join(parts, "__"))
}

// IsZero reports whether the key is missing its scoping components.
func (k Key) IsZero() bool {
	return k.SessionID == "" && k.Roster == "" && k.Action == "" && k.Shift == ""
}
