package account

import (
	"context"
	"database/sql"
	"fmt"

	"wellness/internal/adapters/storage"
	domain "wellness/internal/domain/account"
)

const accountColumns = "id, email, password_hash, name, last_name, role, state, permissions"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	return scanAccount(row)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account (id, email, password_hash, name, last_name, role, state, permissions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			password_hash=excluded.password_hash,
			name=excluded.name,
			last_name=excluded.last_name,
			role=excluded.role,
			state=excluded.state,
			permissions=excluded.permissions`,
		entity.ID, entity.Email, entity.PasswordHash, entity.Name,
		entity.LastName, entity.Role, entity.State, entity.Permissions)
	return err
}

// List retrieves all accounts ordered by name.
// POST: Returns all accounts
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM account ORDER BY name, last_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		var entity domain.Account
		if err := rows.Scan(&entity.ID, &entity.Email, &entity.PasswordHash, &entity.Name,
			&entity.LastName, &entity.Role, &entity.State, &entity.Permissions); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var entity domain.Account
	err := row.Scan(&entity.ID, &entity.Email, &entity.PasswordHash, &entity.Name,
		&entity.LastName, &entity.Role, &entity.State, &entity.Permissions)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}
