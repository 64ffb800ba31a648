package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wellness/internal/adapters/cookiejar"
	"wellness/internal/adapters/token"
	"wellness/internal/domain/account"
	"wellness/internal/domain/session"
)

// --- in-memory test doubles ---

type memAccountStore struct {
	accounts map[string]account.Account // keyed by email
}

func newMemAccountStore() *memAccountStore {
	return &memAccountStore{accounts: make(map[string]account.Account)}
}

// GetByEmail retrieves an account by email from memory.
// POST: returns account or error if not found
func (s *memAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	a, ok := s.accounts[email]
	if !ok {
		return account.Account{}, fmt.Errorf("not found")
	}
	return a, nil
}

// Save persists an account in memory.
func (s *memAccountStore) Save(_ context.Context, a account.Account) error {
	s.accounts[a.Email] = a
	return nil
}

// sessionTestEnv wires a real codec and cookie jar over an in-memory
// browser for the session lifecycle tests.
type sessionTestEnv struct {
	accounts *memAccountStore
	codec    *token.Codec
	browser  *cookiejar.MemoryBackend
	jar      *cookiejar.Jar
	state    *session.State
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()
	codec, err := token.NewCodec("test-secret", "HS256", 8*time.Hour)
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}
	browser := cookiejar.NewMemoryBackend()
	env := &sessionTestEnv{
		accounts: newMemAccountStore(),
		codec:    codec,
		browser:  browser,
		jar:      cookiejar.New(browser, "cookie-secret", "testapp"),
		state:    session.NewState(),
	}

	acct := account.Account{
		ID:          "acct-1",
		Email:       "coach@test.com",
		Name:        "Ana",
		LastName:    "Duarte",
		Role:        "Coach",
		State:       account.StateActive,
		Permissions: "Wellness, Scouting",
	}
	if err := acct.SetPassword("secret123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	env.accounts.accounts[acct.Email] = acct
	return env
}

func (e *sessionTestEnv) loginDeps() LoginDeps {
	return LoginDeps{
		AccountStore: e.accounts,
		Tokens:       e.codec,
		Jar:          e.jar,
		State:        e.state,
		AppName:      "Wellness",
	}
}

func (e *sessionTestEnv) resolveDeps() ResolveSessionDeps {
	return ResolveSessionDeps{
		Tokens:       e.codec,
		Jar:          e.jar,
		State:        e.state,
		AccountStore: e.accounts,
	}
}

// --- tests ---

// TestLogin_Success verifies a full login: state populated, token in a
// fresh slot, active pointer committed to the browser.
func TestLogin_Success(t *testing.T) {
	env := newSessionTestEnv(t)

	result, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !env.state.IsLoggedIn {
		t.Fatal("state must be logged in")
	}
	if env.state.Role != "coach" {
		t.Errorf("role = %q, want lower-cased %q", env.state.Role, "coach")
	}
	if env.state.Name != "Ana Duarte" {
		t.Errorf("name = %q, want %q", env.state.Name, "Ana Duarte")
	}
	if result.SlotKey == "" || env.state.SlotKey != result.SlotKey {
		t.Errorf("slot key = %q / state %q, want matching non-empty", result.SlotKey, env.state.SlotKey)
	}

	// Token and pointer must be durable in the browser.
	stored, err := env.jar.Get(result.SlotKey)
	if err != nil || stored != env.state.Token {
		t.Errorf("slot value = %q err=%v, want the issued token", stored, err)
	}
	active, err := env.jar.Active()
	if err != nil || active != result.SlotKey {
		t.Errorf("active pointer = %q err=%v, want %q", active, err, result.SlotKey)
	}
}

// TestLogin_WrongPassword verifies credential failures are uniform.
func TestLogin_WrongPassword(t *testing.T) {
	env := newSessionTestEnv(t)

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "nope"}, env.loginDeps())
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if env.state.IsLoggedIn {
		t.Error("state must stay logged out")
	}
}

// TestLogin_UnknownEmail verifies unknown users get the same error as a
// wrong password.
func TestLogin_UnknownEmail(t *testing.T) {
	env := newSessionTestEnv(t)

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "ghost@test.com", Password: "secret123"}, env.loginDeps())
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

// TestLogin_NoPermission verifies an authenticated account without the
// app permission is denied.
func TestLogin_NoPermission(t *testing.T) {
	env := newSessionTestEnv(t)
	acct := env.accounts.accounts["coach@test.com"]
	acct.Permissions = "Scouting"
	env.accounts.accounts[acct.Email] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("error = %v, want ErrAccessDenied", err)
	}
	if env.state.IsLoggedIn {
		t.Error("state must stay logged out")
	}
}

// TestLogin_DisabledAccount verifies disabled accounts cannot log in
// even with valid credentials.
func TestLogin_DisabledAccount(t *testing.T) {
	env := newSessionTestEnv(t)
	acct := env.accounts.accounts["coach@test.com"]
	acct.State = account.StateDisabled
	env.accounts.accounts[acct.Email] = acct

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("error = %v, want ErrAccountDisabled", err)
	}
}

// TestLogin_PersistFailureIsLoud verifies a cookie flush failure fails
// the whole login and leaves the state logged out.
func TestLogin_PersistFailureIsLoud(t *testing.T) {
	env := newSessionTestEnv(t)
	env.browser.FailCommit = true

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if !errors.Is(err, ErrSessionNotPersisted) {
		t.Fatalf("error = %v, want ErrSessionNotPersisted", err)
	}
	if env.state.IsLoggedIn {
		t.Error("a login that could not persist must not appear logged in")
	}
}

// TestLogin_FreshSlotPerLogin verifies consecutive logins get distinct
// slots and the pointer follows the newest one.
func TestLogin_FreshSlotPerLogin(t *testing.T) {
	env := newSessionTestEnv(t)

	first, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := ExecuteLogin(context.Background(), LoginInput{Email: "coach@test.com", Password: "secret123"}, env.loginDeps())
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.SlotKey == second.SlotKey {
		t.Error("each login must mint a fresh slot key")
	}
	active, err := env.jar.Active()
	if err != nil || active != second.SlotKey {
		t.Errorf("active pointer = %q err=%v, want newest slot %q", active, err, second.SlotKey)
	}
}
