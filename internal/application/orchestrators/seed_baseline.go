package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"wellness/internal/domain/account"
	"wellness/internal/domain/athlete"
	"wellness/internal/domain/catalog"
)

// SeedAccountStore defines the account store interface needed by seeding.
type SeedAccountStore interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// SeedAthleteStore defines the athlete store interface needed by seeding.
type SeedAthleteStore interface {
	List(ctx context.Context) ([]athlete.Athlete, error)
	Save(ctx context.Context, a athlete.Athlete) error
}

// SeedCatalogStore defines the catalog store interface needed by seeding.
type SeedCatalogStore interface {
	ListByCatalog(ctx context.Context, name string) ([]catalog.Item, error)
	Save(ctx context.Context, item catalog.Item) error
}

// SeedBaselineInput carries the bootstrap admin credentials.
type SeedBaselineInput struct {
	AdminEmail    string
	AdminPassword string
	AppName       string
}

// SeedBaselineDeps holds stores needed for baseline seeding.
type SeedBaselineDeps struct {
	AccountStore SeedAccountStore
	AthleteStore SeedAthleteStore
	CatalogStore SeedCatalogStore
}

// ExecuteSeedBaseline bootstraps a fresh database: the admin account, a
// developer account for test-partition work, the form catalogs and a
// demo roster. It is idempotent — existing accounts, catalogs and
// athletes are left alone.
// PRE: Database is migrated
// POST: The app is usable with the seeded admin login
func ExecuteSeedBaseline(ctx context.Context, input SeedBaselineInput, deps SeedBaselineDeps) error {
	if input.AdminPassword != "" {
		if err := seedAccount(ctx, deps.AccountStore, input.AdminEmail, input.AdminPassword, account.RoleAdmin, input.AppName); err != nil {
			return err
		}
		if err := seedAccount(ctx, deps.AccountStore, "developer@test.com", input.AdminPassword, account.RoleDeveloper, input.AppName); err != nil {
			return err
		}
	}

	if err := seedCatalogs(ctx, deps.CatalogStore); err != nil {
		return err
	}

	return seedAthletes(ctx, deps.AthleteStore)
}

func seedAccount(ctx context.Context, store SeedAccountStore, email, password, role, appName string) error {
	if _, err := store.GetByEmail(ctx, email); err == nil {
		return nil // already exists
	}

	acct := account.Account{
		ID:          uuid.New().String(),
		Email:       email,
		Role:        role,
		State:       account.StateActive,
		Permissions: appName,
	}
	if err := acct.SetPassword(password); err != nil {
		return fmt.Errorf("seed account %s: set password: %w", email, err)
	}
	if err := store.Save(ctx, acct); err != nil {
		return fmt.Errorf("seed account %s: save: %w", email, err)
	}
	slog.Info("seed_event", "event", "account_created", "email", email, "role", role)
	return nil
}

// seedCatalogs fills the lookup catalogs the forms render from. Only
// missing catalogs are written, one at a time, so a partially seeded
// database converges.
func seedCatalogs(ctx context.Context, store SeedCatalogStore) error {
	defaults := map[string][]string{
		catalog.PainZone: {
			"neck", "shoulder", "upper back", "lower back", "hip",
			"groin", "quadriceps", "hamstring", "knee", "calf",
			"ankle", "foot",
		},
		catalog.PainSegment: {"upper body", "trunk", "lower body"},
		catalog.LoadType:    {"field", "gym", "match", "recovery"},
		catalog.RehabType:   {"none", "prevention", "return to play"},
		catalog.Condition:   {"available", "limited", "unavailable"},
		catalog.AbsenceType: {"injury", "illness", "personal", "national team"},
	}

	for name, entries := range defaults {
		existing, err := store.ListByCatalog(ctx, name)
		if err != nil {
			return fmt.Errorf("seed catalog %s: list: %w", name, err)
		}
		if len(existing) > 0 {
			continue
		}
		for i, entry := range entries {
			item := catalog.Item{Catalog: name, ID: i + 1, Name: entry}
			if err := store.Save(ctx, item); err != nil {
				return fmt.Errorf("seed catalog %s: save %q: %w", name, entry, err)
			}
		}
		slog.Info("seed_event", "event", "catalog_seeded", "catalog", name, "items", len(entries))
	}
	return nil
}

func seedAthletes(ctx context.Context, store SeedAthleteStore) error {
	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("seed athletes: list: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	demo := []athlete.Athlete{
		{Name: "Ana", LastName: "Duarte", Roster: "first-team"},
		{Name: "Bea", LastName: "Castro", Roster: "first-team"},
		{Name: "Carla", LastName: "Mendes", Roster: "first-team"},
		{Name: "Dana", LastName: "Ortiz", Roster: "academy"},
		{Name: "Elsa", LastName: "Pavon", Roster: "academy"},
	}
	for _, a := range demo {
		a.ID = uuid.New().String()
		a.Active = true
		if err := a.Validate(); err != nil {
			return fmt.Errorf("seed athlete %s: %w", a.Name, err)
		}
		if err := store.Save(ctx, a); err != nil {
			return fmt.Errorf("seed athlete %s: save: %w", a.Name, err)
		}
	}
	slog.Info("seed_event", "event", "athletes_seeded", "count", len(demo))
	return nil
}
