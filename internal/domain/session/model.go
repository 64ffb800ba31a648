package session

import (
	"strings"
	"time"
)

// Claims are the decoded contents of a session token.
type Claims struct {
	Subject   string // user email
	Role      string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// State is the in-memory authentication state for one browser tab.
// It is created with NewState at the start of a render cycle, mutated
// only through its methods, and never persisted — the cookie jar is the
// durable handle.
type State struct {
	IsLoggedIn bool
	Username   string
	Role       string
	Name       string
	Token      string
	SlotKey    string
	SessionID  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// NewState returns the all-empty default auth state.
func NewState() *State {
	return &State{}
}

// ApplyClaims populates the state from a verified token.
// The role is lower-cased at this boundary; the account record keeps
// its stored casing.
// PRE: claims came from a successful verification of token
// POST: IsLoggedIn is true and all identity fields are set
func (s *State) ApplyClaims(token, slotKey string, c Claims) {
	s.IsLoggedIn = true
	s.Username = c.Subject
	s.Role = strings.ToLower(c.Role)
	s.Token = token
	s.SlotKey = slotKey
	s.SessionID = c.SessionID
	s.IssuedAt = c.IssuedAt
	s.ExpiresAt = c.ExpiresAt
}

// SetName records the user's display name alongside the claims.
func (s *State) SetName(name string) {
	s.Name = name
}

// Clear resets the state to the all-empty defaults.
// POST: State equals a freshly-constructed one
func (s *State) Clear() {
	*s = State{}
}
