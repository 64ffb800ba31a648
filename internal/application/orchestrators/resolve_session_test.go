package orchestrators

import (
	"context"
	"testing"
	"time"

	"wellness/internal/domain/account"
	"wellness/internal/domain/session"
)

// TestResolveSession_MemoryPath verifies a token already in state wins
// without touching the cookie jar.
func TestResolveSession_MemoryPath(t *testing.T) {
	env := newSessionTestEnv(t)
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps()); err != nil {
		t.Fatalf("login: %v", err)
	}

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Authenticated || result.Source != "memory" {
		t.Errorf("result = %+v, want authenticated via memory", result)
	}
}

// TestResolveSession_SlotPath verifies a state that lost its token but
// kept its slot key re-reads the token from its own slot.
func TestResolveSession_SlotPath(t *testing.T) {
	env := newSessionTestEnv(t)
	login, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Simulate a rerun that kept only the slot binding.
	env.state.Clear()
	env.state.SlotKey = login.SlotKey

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Authenticated || result.Source != "slot" {
		t.Errorf("result = %+v, want authenticated via slot", result)
	}
	if env.state.Username != "coach@test.com" || env.state.Role != "coach" {
		t.Errorf("state = %q/%q, want identity restored", env.state.Username, env.state.Role)
	}
	if env.state.Name != "Ana Duarte" {
		t.Errorf("name = %q, want hydrated from account", env.state.Name)
	}
}

// TestResolveSession_PointerPath verifies a brand-new tab auto-logs-in
// through the browser's active-session pointer.
func TestResolveSession_PointerPath(t *testing.T) {
	env := newSessionTestEnv(t)
	login, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// A new tab shares the browser but starts with empty state.
	env.state = session.NewState()

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Authenticated || result.Source != "pointer" {
		t.Errorf("result = %+v, want authenticated via pointer", result)
	}
	if env.state.SlotKey != login.SlotKey {
		t.Errorf("slot key = %q, want bound to %q", env.state.SlotKey, login.SlotKey)
	}
}

// TestResolveSession_NothingToResolve verifies an empty browser yields
// a cleared, unauthenticated state.
func TestResolveSession_NothingToResolve(t *testing.T) {
	env := newSessionTestEnv(t)

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Error("empty browser must not authenticate")
	}
	if env.state.IsLoggedIn {
		t.Error("state must be cleared")
	}
}

// TestResolveSession_NeverScansSlots verifies a session slot without a
// pointer naming it is not discovered.
func TestResolveSession_NeverScansSlots(t *testing.T) {
	env := newSessionTestEnv(t)
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps()); err != nil {
		t.Fatalf("login: %v", err)
	}
	// Drop the pointer but keep the slot, then open a "new tab".
	if err := env.jar.SetActive(""); err != nil {
		t.Fatalf("clear pointer: %v", err)
	}
	if err := env.jar.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	env.state = session.NewState()

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Error("orphaned slots must never be discovered by scanning")
	}
}

// TestResolveSession_ExpiredTokenClearsStalePointer verifies that a
// pointer at a slot with a dead token is cleaned up in passing.
func TestResolveSession_ExpiredTokenClearsStalePointer(t *testing.T) {
	env := newSessionTestEnv(t)
	login, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Jump the clock past the 8h TTL and open a new tab.
	env.codec.Now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	env.state = session.NewState()

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Fatal("expired token must not authenticate")
	}

	active, err := env.jar.Active()
	if err != nil || active != "" {
		t.Errorf("active pointer = %q err=%v, want cleared", active, err)
	}
	slot, err := env.jar.Get(login.SlotKey)
	if err != nil || slot != "" {
		t.Errorf("slot = %q err=%v, want deleted", slot, err)
	}
}

// TestResolveSession_DeadMemoryTokenForcesLogout verifies a state whose
// in-memory token no longer verifies is logged out on the spot: no
// fallback to its own slot, slot and pointer torn down.
func TestResolveSession_DeadMemoryTokenForcesLogout(t *testing.T) {
	env := newSessionTestEnv(t)
	login, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Corrupt only the in-memory token; the slot still holds the good one.
	env.state.Token = "not-a-token"

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Fatal("a dead in-memory token must end the session, not fall back")
	}
	if env.state.IsLoggedIn || env.state.Username != "" {
		t.Errorf("state = %+v, want cleared", env.state)
	}
	if slot, err := env.jar.Get(login.SlotKey); err != nil || slot != "" {
		t.Errorf("slot = %q err=%v, want torn down", slot, err)
	}
	if active, err := env.jar.Active(); err != nil || active != "" {
		t.Errorf("active pointer = %q err=%v, want cleared", active, err)
	}
}

// TestResolveSession_DeadSlotTokenForcesLogout verifies a bound slot
// whose value no longer verifies ends the session instead of falling
// through to the pointer.
func TestResolveSession_DeadSlotTokenForcesLogout(t *testing.T) {
	env := newSessionTestEnv(t)
	login, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Simulate a rerun that kept only the slot binding, with the slot now
	// holding something that does not verify.
	env.state.Clear()
	env.state.SlotKey = login.SlotKey
	if err := env.jar.Put(login.SlotKey, "not-a-token"); err != nil {
		t.Fatalf("overwrite slot: %v", err)
	}
	if err := env.jar.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	result, err := ExecuteResolveSession(context.Background(), env.resolveDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Fatal("a dead slot token must end the session, not fall back")
	}
	if slot, err := env.jar.Get(login.SlotKey); err != nil || slot != "" {
		t.Errorf("slot = %q err=%v, want torn down", slot, err)
	}
	if active, err := env.jar.Active(); err != nil || active != "" {
		t.Errorf("active pointer = %q err=%v, want cleared", active, err)
	}
}

// TestResolveSession_DeadTokenNeverAdoptsAnotherSession verifies the
// critical isolation property: a tab whose session died must not pick
// up a different user's session through the browser pointer.
func TestResolveSession_DeadTokenNeverAdoptsAnotherSession(t *testing.T) {
	env := newSessionTestEnv(t)
	physio := account.Account{
		ID: "acct-2", Email: "physio@test.com", Name: "Rui", LastName: "Melo",
		Role: "Medical", State: account.StateActive, Permissions: "Wellness",
	}
	if err := physio.SetPassword("secret456"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	env.accounts.accounts[physio.Email] = physio

	// Tab 1: the coach logs in.
	coachState := env.state
	coachLogin, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("coach login: %v", err)
	}

	// Tab 2: the physio logs in from the same browser; the pointer now
	// names their session.
	physioState := session.NewState()
	physioLogin, err := ExecuteLogin(context.Background(), LoginInput{Email: "physio@test.com", Password: "secret456"}, LoginDeps{
		AccountStore: env.accounts,
		Tokens:       env.codec,
		Jar:          env.jar,
		State:        physioState,
		AppName:      "Wellness",
	})
	if err != nil {
		t.Fatalf("physio login: %v", err)
	}

	// Tab 1's token dies and its slot is gone.
	coachState.Token = "not-a-token"
	if err := env.jar.Delete(coachLogin.SlotKey); err != nil {
		t.Fatalf("delete slot: %v", err)
	}
	if err := env.jar.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	result, err := ExecuteResolveSession(context.Background(), ResolveSessionDeps{
		Tokens:       env.codec,
		Jar:          env.jar,
		State:        coachState,
		AccountStore: env.accounts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Authenticated {
		t.Fatalf("result = %+v, want no session for the dead tab", result)
	}
	if coachState.Username != "" || coachState.IsLoggedIn {
		t.Errorf("state = %q, must not become the physio's session", coachState.Username)
	}

	// The physio's session in tab 2 is untouched.
	if active, err := env.jar.Active(); err != nil || active != physioLogin.SlotKey {
		t.Errorf("active pointer = %q err=%v, want still %q", active, err, physioLogin.SlotKey)
	}
	if slot, err := env.jar.Get(physioLogin.SlotKey); err != nil || slot == "" {
		t.Errorf("physio slot = %q err=%v, want intact", slot, err)
	}
}

// TestIsAuthenticated verifies the boolean wrapper tracks resolution.
func TestIsAuthenticated(t *testing.T) {
	env := newSessionTestEnv(t)

	ok, err := IsAuthenticated(context.Background(), env.resolveDeps())
	if err != nil || ok {
		t.Fatalf("got (%v, %v), want (false, nil) before login", ok, err)
	}

	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps()); err != nil {
		t.Fatalf("login: %v", err)
	}
	ok, err = IsAuthenticated(context.Background(), env.resolveDeps())
	if err != nil || !ok {
		t.Fatalf("got (%v, %v), want (true, nil) after login", ok, err)
	}
}
