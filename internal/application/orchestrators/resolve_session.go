package orchestrators

import (
	"context"
	"log/slog"

	"wellness/internal/domain/account"
	"wellness/internal/domain/session"
)

// TokenVerifier verifies signed session tokens. A bad token reads as
// absent (ok=false) rather than as an error.
type TokenVerifier interface {
	Verify(tok string) (session.Claims, bool, error)
}

// AccountStoreForSession defines the store interface needed to hydrate
// the display name after a session resolves.
type AccountStoreForSession interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// ResolveSessionDeps holds dependencies for ResolveSession.
type ResolveSessionDeps struct {
	Tokens       TokenVerifier
	Jar          SessionJar
	State        *session.State
	AccountStore AccountStoreForSession // optional: nil skips name hydration
}

// ResolveSessionResult reports how the session was established.
type ResolveSessionResult struct {
	Authenticated bool
	Source        string // "memory", "slot", "pointer" or ""
}

// ExecuteResolveSession establishes the auth state for the current
// interaction. Sources are tried strictly in priority order, each path
// short-circuiting:
//
//  1. the token already held in memory — if it no longer verifies, the
//     session ends here with a forced logout; it never falls through,
//  2. the cookie slot this state was bound to — a value that no longer
//     verifies also forces logout; only a missing slot continues,
//  3. the slot named by the browser's active-session pointer.
//
// Arbitrary session slots are never scanned, and a dead session never
// adopts the pointer's: that slot may belong to a different login in
// another tab. A stale pointer (its slot is missing or its token no
// longer verifies) is cleaned up in passing so the next interaction
// starts from a consistent jar.
// PRE: deps.State is the state of the current interaction
// POST: State is logged in with verified claims, or fully cleared
func ExecuteResolveSession(ctx context.Context, deps ResolveSessionDeps) (ResolveSessionResult, error) {
	// 1. In-memory token from earlier in this session.
	if deps.State.IsLoggedIn && deps.State.Token != "" {
		claims, ok, err := deps.Tokens.Verify(deps.State.Token)
		if err != nil {
			return ResolveSessionResult{}, err
		}
		if !ok {
			forceLogout(ctx, deps, "memory_token_invalid")
			return ResolveSessionResult{}, nil
		}
		deps.State.ApplyClaims(deps.State.Token, deps.State.SlotKey, claims)
		hydrateName(ctx, deps)
		return ResolveSessionResult{Authenticated: true, Source: "memory"}, nil
	}

	// 2. The slot this state was bound to by a previous resolve or login.
	if deps.State.SlotKey != "" {
		found, err := resolveFromSlot(ctx, deps, deps.State.SlotKey)
		if err != nil {
			return ResolveSessionResult{}, err
		}
		switch found {
		case slotAdopted:
			return ResolveSessionResult{Authenticated: true, Source: "slot"}, nil
		case slotDead:
			forceLogout(ctx, deps, "slot_token_invalid")
			return ResolveSessionResult{}, nil
		}
		// slotMissing: the cookie expired or was cleared elsewhere; the
		// pointer may still name a live session for this browser.
	}

	// 3. The browser-wide active-session pointer.
	active, err := deps.Jar.Active()
	if err != nil {
		return ResolveSessionResult{}, err
	}
	if active != "" {
		found, err := resolveFromSlot(ctx, deps, active)
		if err != nil {
			return ResolveSessionResult{}, err
		}
		if found == slotAdopted {
			return ResolveSessionResult{Authenticated: true, Source: "pointer"}, nil
		}
		// Stale pointer: drop it and its slot so the browser does not
		// keep retrying a dead session.
		_ = deps.Jar.Delete(active)
		_ = deps.Jar.SetActive("")
		_ = deps.Jar.Flush()
		slog.Info("auth_event", "event", "stale_pointer_cleared", "sid", active)
	}

	deps.State.Clear()
	return ResolveSessionResult{}, nil
}

// IsAuthenticated resolves the session and reports whether the current
// interaction carries a valid login.
func IsAuthenticated(ctx context.Context, deps ResolveSessionDeps) (bool, error) {
	result, err := ExecuteResolveSession(ctx, deps)
	if err != nil {
		return false, err
	}
	return result.Authenticated, nil
}

// slotResolution classifies what one cookie slot held: nothing, a token
// that was adopted into the state, or a value that no longer verifies.
type slotResolution int

const (
	slotMissing slotResolution = iota
	slotAdopted
	slotDead
)

// resolveFromSlot reads and verifies the token in one cookie slot.
func resolveFromSlot(ctx context.Context, deps ResolveSessionDeps, slotKey string) (slotResolution, error) {
	tok, err := deps.Jar.Get(slotKey)
	if err != nil {
		return slotMissing, err
	}
	if tok == "" {
		return slotMissing, nil
	}
	claims, ok, err := deps.Tokens.Verify(tok)
	if err != nil {
		return slotMissing, err
	}
	if !ok {
		return slotDead, nil
	}
	deps.State.ApplyClaims(tok, slotKey, claims)
	hydrateName(ctx, deps)
	return slotAdopted, nil
}

// forceLogout ends a session whose token stopped verifying: the owned
// slot is torn down exactly like a user-initiated logout, and the state
// is cleared so the caller reports no session.
func forceLogout(ctx context.Context, deps ResolveSessionDeps, reason string) {
	slog.Info("auth_event", "event", "forced_logout", "reason", reason, "sid", deps.State.SlotKey)
	ExecuteLogout(ctx, LogoutDeps{Jar: deps.Jar, State: deps.State})
}

// hydrateName fills in the display name from the account record.
// Best-effort: a lookup failure leaves the name empty.
func hydrateName(ctx context.Context, deps ResolveSessionDeps) {
	if deps.AccountStore == nil || deps.State.Name != "" {
		return
	}
	if acct, err := deps.AccountStore.GetByEmail(ctx, deps.State.Username); err == nil {
		deps.State.SetName(acct.FullName())
	}
}
