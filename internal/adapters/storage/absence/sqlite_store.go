package absence

import (
	"context"
	"database/sql"
	"fmt"

	"wellness/internal/adapters/storage"
	domain "wellness/internal/domain/absence"
)

const absenceColumns = "id, athlete_id, type_id, start_date, end_date, reason"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new absence store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Absence by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Absence, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+absenceColumns+" FROM absence WHERE id = ?", id)
	entity, err := scanAbsence(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Absence{}, fmt.Errorf("absence not found: %w", err)
	}
	return entity, err
}

// Save persists an Absence to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Absence) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO absence (id, athlete_id, type_id, start_date, end_date, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id=excluded.athlete_id,
			type_id=excluded.type_id,
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			reason=excluded.reason`,
		entity.ID, entity.AthleteID, entity.TypeID, entity.StartDate,
		nullableStr(entity.EndDate), nullableStr(entity.Reason))
	return err
}

// List retrieves all absences, most recent start first.
// POST: Returns all absences
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Absence, error) {
	return s.list(ctx, "SELECT "+absenceColumns+" FROM absence ORDER BY start_date DESC")
}

// ListActiveOn retrieves absences whose window covers the given date.
// Open-ended absences (NULL end_date) match any date at or after their
// start. Feeds the eligibility projection.
// PRE: date is YYYY-MM-DD
// POST: Returns absences covering the date
func (s *SQLiteStore) ListActiveOn(ctx context.Context, date string) ([]domain.Absence, error) {
	return s.list(ctx,
		"SELECT "+absenceColumns+` FROM absence
		WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?)`,
		date, date)
}

// Delete removes an absence window.
// PRE: id is non-empty
// POST: The absence no longer exists
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM absence WHERE id = ?", id)
	return err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Absence, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Absence
	for rows.Next() {
		entity, err := scanAbsence(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanAbsence(scan func(dest ...any) error) (domain.Absence, error) {
	var entity domain.Absence
	var endDate, reason sql.NullString
	err := scan(&entity.ID, &entity.AthleteID, &entity.TypeID, &entity.StartDate, &endDate, &reason)
	if err != nil {
		return domain.Absence{}, err
	}
	entity.EndDate = endDate.String
	entity.Reason = reason.String
	return entity, nil
}

func nullableStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}
