package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"wellness/internal/adapters/cookiejar"
	"wellness/internal/domain/account"
	"wellness/internal/domain/session"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Issue(subject, role, sessionID string) (string, session.Claims, error)
}

// SessionJar is the encrypted cookie jar the session lifecycle runs on.
type SessionJar interface {
	Ready() bool
	Put(slot, value string) error
	Get(slot string) (string, error)
	Delete(slot string) error
	SetActive(slot string) error
	Active() (string, error)
	Flush() error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the identity established by a successful login.
type LoginResult struct {
	Username string
	Role     string
	Name     string
	SlotKey  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Tokens       TokenIssuer
	Jar          SessionJar
	State        *session.State
	AppName      string // permission the account must carry

	// Injectable for testing
	NewSlotKey func() string
}

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrAccessDenied        = errors.New("account has no access to this application")
	ErrSessionNotPersisted = errors.New("session could not be persisted to the browser")
)

// ExecuteLogin validates credentials, issues a session token and persists
// it in a fresh cookie slot, pointing the active-session pointer at it.
// The in-memory state is only populated after the cookie write succeeded;
// a login that cannot persist its session fails loudly.
// PRE: deps.State is the state of the current interaction
// POST: On success the state is logged in and the jar is flushed
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.State != account.StateActive {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "disabled")
		return LoginResult{}, ErrAccountDisabled
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !acct.HasPermission(deps.AppName) {
		slog.Info("auth_event", "event", "login_blocked", "email", input.Email, "reason", "no_permission", "app", deps.AppName)
		return LoginResult{}, ErrAccessDenied
	}

	newSlotKey := deps.NewSlotKey
	if newSlotKey == nil {
		newSlotKey = cookiejar.NewSlotKey
	}

	// The slot key doubles as the session id so the token and its cookie
	// slot stay correlated.
	slotKey := newSlotKey()
	tok, claims, err := deps.Tokens.Issue(acct.Email, acct.Role, slotKey)
	if err != nil {
		return LoginResult{}, err
	}

	if err := persistSession(deps.Jar, slotKey, tok); err != nil {
		slog.Error("auth_event", "event", "login_persist_failed", "email", input.Email, "error", err)
		return LoginResult{}, errors.Join(ErrSessionNotPersisted, err)
	}

	deps.State.ApplyClaims(tok, slotKey, claims)
	deps.State.SetName(acct.FullName())

	slog.Info("auth_event", "event", "login_success", "email", acct.Email, "role", deps.State.Role, "sid", slotKey)

	return LoginResult{
		Username: deps.State.Username,
		Role:     deps.State.Role,
		Name:     deps.State.Name,
		SlotKey:  slotKey,
	}, nil
}

func persistSession(jar SessionJar, slotKey, tok string) error {
	if err := jar.Put(slotKey, tok); err != nil {
		return err
	}
	if err := jar.SetActive(slotKey); err != nil {
		return err
	}
	return jar.Flush()
}
