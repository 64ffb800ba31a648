package account

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role constants
const (
	RoleAdmin     = "admin"
	RoleCoach     = "coach"
	RoleMedical   = "medical"
	RoleDeveloper = "developer"
)

// User state constants
const (
	StateActive   = "active"
	StateDisabled = "disabled"
)

// Domain errors
var (
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrWrongPassword = errors.New("incorrect password")
)

// Account holds state for an application user. Permissions is the raw
// comma-separated permission list as stored (e.g. "Wellness, Scouting").
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	LastName     string
	Role         string
	State        string
	Permissions  string
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if a.Role == "" {
		return errors.New("role cannot be empty")
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is non-empty
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// bcrypt performs the constant-time comparison.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// HasPermission reports whether the given application name appears in the
// account's comma-separated permission list. Matching is exact per token,
// whitespace around tokens is ignored.
// INVARIANT: Account fields are not mutated
func (a *Account) HasPermission(app string) bool {
	if app == "" {
		return false
	}
	for _, p := range strings.Split(a.Permissions, ",") {
		if strings.TrimSpace(p) == app {
			return true
		}
	}
	return false
}

// FullName returns "Name LastName" with surrounding whitespace trimmed.
// INVARIANT: Account fields are not mutated
func (a *Account) FullName() string {
	return strings.TrimSpace(a.Name + " " + a.LastName)
}

// IsDeveloper returns true if the account carries the developer role,
// which writes into the isolated test-data partition.
// INVARIANT: Account fields are not mutated
func (a *Account) IsDeveloper() bool {
	return strings.EqualFold(a.Role, RoleDeveloper)
}
