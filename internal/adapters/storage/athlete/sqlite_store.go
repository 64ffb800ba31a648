package athlete

import (
	"context"
	"database/sql"
	"fmt"

	"wellness/internal/adapters/storage"
	domain "wellness/internal/domain/athlete"
)

const athleteColumns = "id, name, last_name, roster, active"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new athlete store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Athlete by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Athlete, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+athleteColumns+" FROM athlete WHERE id = ?", id)
	var entity domain.Athlete
	err := row.Scan(&entity.ID, &entity.Name, &entity.LastName, &entity.Roster, &entity.Active)
	if err == sql.ErrNoRows {
		return domain.Athlete{}, fmt.Errorf("athlete not found: %w", err)
	}
	return entity, err
}

// Save persists an Athlete to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Athlete) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO athlete (id, name, last_name, roster, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			last_name=excluded.last_name,
			roster=excluded.roster,
			active=excluded.active`,
		entity.ID, entity.Name, entity.LastName, entity.Roster, entity.Active)
	return err
}

// List retrieves all athletes ordered by name.
// POST: Returns all athletes
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Athlete, error) {
	return s.list(ctx, "SELECT "+athleteColumns+" FROM athlete ORDER BY name, last_name")
}

// ListByRoster retrieves active athletes for a roster code, ordered
// alphabetically by name. This ordering defines the deterministic
// "first candidate" used by selection reconciliation.
// PRE: roster is non-empty
// POST: Returns active athletes of the roster in name order
func (s *SQLiteStore) ListByRoster(ctx context.Context, roster string) ([]domain.Athlete, error) {
	return s.list(ctx,
		"SELECT "+athleteColumns+" FROM athlete WHERE roster = ? AND active = 1 ORDER BY name, last_name",
		roster)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Athlete, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Athlete
	for rows.Next() {
		var entity domain.Athlete
		if err := rows.Scan(&entity.ID, &entity.Name, &entity.LastName, &entity.Roster, &entity.Active); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
