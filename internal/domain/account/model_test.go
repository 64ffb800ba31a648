package account

import "testing"

// TestSetAndCheckPassword tests the bcrypt hash round trip.
func TestSetAndCheckPassword(t *testing.T) {
	a := Account{Email: "coach@test.com", Role: RoleCoach}
	if err := a.SetPassword("open sesame 99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "open sesame 99" {
		t.Error("expected PasswordHash to be set to a hash")
	}
	if err := a.CheckPassword("open sesame 99"); err != nil {
		t.Errorf("expected correct password to verify, got %v", err)
	}
	if err := a.CheckPassword("wrong password"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

// TestCheckPassword_EmptyHash tests that an account without a hash never verifies.
func TestCheckPassword_EmptyHash(t *testing.T) {
	a := Account{Email: "coach@test.com"}
	if err := a.CheckPassword("anything"); err != ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword for empty hash, got %v", err)
	}
}

// TestSetPassword_Empty tests that an empty password is rejected.
func TestSetPassword_Empty(t *testing.T) {
	a := Account{}
	if err := a.SetPassword(""); err != ErrEmptyPassword {
		t.Errorf("expected ErrEmptyPassword, got %v", err)
	}
}

// TestHasPermission tests exact-token matching in the comma-separated list.
func TestHasPermission(t *testing.T) {
	tests := []struct {
		name        string
		permissions string
		app         string
		want        bool
	}{
		{"present", "Wellness, Scouting", "Wellness", true},
		{"present with spaces", "  Wellness ,Scouting", "Wellness", true},
		{"absent", "Scouting, Medical", "Wellness", false},
		{"prefix is not a match", "WellnessPlus", "Wellness", false},
		{"empty list", "", "Wellness", false},
		{"empty app", "Wellness", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Account{Permissions: tt.permissions}
			if got := a.HasPermission(tt.app); got != tt.want {
				t.Errorf("HasPermission(%q) with %q = %v, want %v", tt.app, tt.permissions, got, tt.want)
			}
		})
	}
}

// TestFullName tests name concatenation and trimming.
func TestFullName(t *testing.T) {
	a := Account{Name: "Ana", LastName: "García"}
	if got := a.FullName(); got != "Ana García" {
		t.Errorf("FullName() = %q, want %q", got, "Ana García")
	}
	b := Account{Name: "Ana"}
	if got := b.FullName(); got != "Ana" {
		t.Errorf("FullName() = %q, want %q", got, "Ana")
	}
}

// TestValidate tests account field validation.
func TestValidate(t *testing.T) {
	a := Account{Email: "x@y.com", Role: RoleCoach}
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	b := Account{Email: "no-at-sign", Role: RoleCoach}
	if err := b.Validate(); err != ErrInvalidEmail {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	c := Account{Role: RoleCoach}
	if err := c.Validate(); err != ErrEmptyEmail {
		t.Errorf("expected ErrEmptyEmail, got %v", err)
	}
}

// TestIsDeveloper tests the developer-partition role check.
func TestIsDeveloper(t *testing.T) {
	a := Account{Role: "Developer"}
	if !a.IsDeveloper() {
		t.Error("expected case-insensitive developer match")
	}
	b := Account{Role: RoleCoach}
	if b.IsDeveloper() {
		t.Error("coach must not be developer")
	}
}
