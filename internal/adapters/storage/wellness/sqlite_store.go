package wellness

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wellness/internal/adapters/storage"
	domain "wellness/internal/domain/wellness"
)

const recordColumns = `id, athlete_id, session_date, kind, shift, data_partition,
	recovery, fatigue, sleep, stress, pain, pain_segment_id, pain_zones, pain_side,
	tactical_periodization, load_type_id, rehab_type_id, condition_id, in_period, note,
	session_minutes, rpe, internal_load, status, recorded_by, recorded_at,
	modified_by, updated_at, deleted_by, deleted_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new wellness record store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Record by its ID.
// PRE: id > 0
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM wellness_record WHERE id = ?", id)
	if err != nil {
		return domain.Record{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Record{}, err
		}
		return domain.Record{}, fmt.Errorf("wellness record %d not found: %w", id, sql.ErrNoRows)
	}
	return scanRecord(rows)
}

// FindOpen locates the open record (status <= 2) for the exact
// (athlete, date, shift) tuple within the actor partition.
// POST: Returns (record, true) when an open record exists
func (s *SQLiteStore) FindOpen(ctx context.Context, athleteID, sessionDate, shift, partition string) (domain.Record, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+` FROM wellness_record
		WHERE athlete_id = ? AND session_date = ? AND shift = ? AND data_partition = ? AND status <= 2
		LIMIT 1`,
		athleteID, sessionDate, shift, partition)
	if err != nil {
		return domain.Record{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return domain.Record{}, false, rows.Err()
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return domain.Record{}, false, err
	}
	return rec, true, nil
}

// UpsertCheckIn atomically inserts a new open record or fully overwrites
// the check-in fields of the existing open record for the tuple. The
// conflict target is the partial unique index on
// (athlete_id, session_date, shift, data_partition) WHERE status <= 2,
// so concurrent check-ins for the same tuple cannot produce duplicates.
// The status of an existing row is left untouched: editing a check-in on
// a closed record does not reopen it.
// PRE: value has been validated
// POST: Exactly one open row exists for the tuple
func (s *SQLiteStore) UpsertCheckIn(ctx context.Context, value domain.Record) error {
	zones, err := json.Marshal(value.PainZones)
	if err != nil {
		return fmt.Errorf("failed to encode pain zones: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wellness_record (
			athlete_id, session_date, kind, shift, data_partition,
			recovery, fatigue, sleep, stress, pain, pain_segment_id, pain_zones, pain_side,
			tactical_periodization, load_type_id, rehab_type_id, condition_id, in_period, note,
			session_minutes, rpe, internal_load, status, recorded_by, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(athlete_id, session_date, shift, data_partition) WHERE status <= 2
		DO UPDATE SET
			kind=excluded.kind,
			recovery=excluded.recovery,
			fatigue=excluded.fatigue,
			sleep=excluded.sleep,
			stress=excluded.stress,
			pain=excluded.pain,
			pain_segment_id=excluded.pain_segment_id,
			pain_zones=excluded.pain_zones,
			pain_side=excluded.pain_side,
			tactical_periodization=excluded.tactical_periodization,
			load_type_id=excluded.load_type_id,
			rehab_type_id=excluded.rehab_type_id,
			condition_id=excluded.condition_id,
			in_period=excluded.in_period,
			note=excluded.note,
			session_minutes=excluded.session_minutes,
			rpe=excluded.rpe,
			internal_load=excluded.internal_load,
			recorded_by=excluded.recorded_by,
			recorded_at=excluded.recorded_at`,
		value.AthleteID, value.SessionDate, value.Kind, value.Shift, value.Partition,
		value.Recovery, value.Fatigue, value.Sleep, value.Stress, value.Pain,
		nullableInt(value.PainSegmentID), string(zones), nullableStr(value.PainSide),
		nullableStr(value.TacticalPeriodization), nullableInt(value.LoadTypeID),
		nullableInt(value.RehabTypeID), nullableInt(value.ConditionID),
		value.InPeriod, nullableStr(value.Note),
		value.SessionMinutes, value.RPE, value.InternalLoad,
		value.Status, value.RecordedBy, value.RecordedAt.Format(time.RFC3339Nano))
	return err
}

// CloseOpen applies the check-out transition to the open record of the
// tuple in a single statement: status -> 2, duration, exertion, internal
// load, modifier and timestamp. Check-in-origin fields are not touched.
// POST: Returns the number of rows closed (0 means no prior check-in)
func (s *SQLiteStore) CloseOpen(ctx context.Context, p CloseParams) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE wellness_record SET
			kind = 'checkout',
			status = 2,
			session_minutes = ?,
			rpe = ?,
			internal_load = ?,
			modified_by = ?,
			updated_at = ?
		WHERE athlete_id = ? AND session_date = ? AND shift = ? AND data_partition = ? AND status <= 2`,
		p.SessionMinutes, p.RPE, p.InternalLoad, p.ModifiedBy, p.At.Format(time.RFC3339Nano),
		p.AthleteID, p.SessionDate, p.Shift, p.Partition)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// SoftDelete marks all matching open records as deleted (status=3) with
// the deletion timestamp and actor, in one atomic statement.
// PRE: ids is non-empty
// POST: Returns the number of rows marked deleted
func (s *SQLiteStore) SoftDelete(ctx context.Context, ids []int64, actor string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, at.Format(time.RFC3339Nano), actor)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE wellness_record SET status = 3, deleted_at = ?, deleted_by = ?
		WHERE id IN (%s) AND status <= 2`, strings.Join(placeholders, ",")), args...)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// ListOpenByDateShift retrieves open records for a session date and
// shift within one partition. Feeds the eligibility projection.
// POST: Returns matching open records
func (s *SQLiteStore) ListOpenByDateShift(ctx context.Context, sessionDate, shift, partition string) ([]domain.Record, error) {
	return s.list(ctx,
		"SELECT "+recordColumns+` FROM wellness_record
		WHERE session_date = ? AND shift = ? AND data_partition = ? AND status <= 2`,
		sessionDate, shift, partition)
}

// ListByPartition retrieves all non-deleted records of one partition,
// newest registration first.
// POST: Returns matching records
func (s *SQLiteStore) ListByPartition(ctx context.Context, partition string) ([]domain.Record, error) {
	return s.list(ctx,
		"SELECT "+recordColumns+` FROM wellness_record
		WHERE data_partition = ? AND status <= 2
		ORDER BY recorded_at DESC`,
		partition)
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		entity, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var entity domain.Record
	var painSegment, loadType, rehabType, condition sql.NullInt64
	var painZones string
	var painSide, tactical, note, modifiedBy, deletedBy sql.NullString
	var recordedAt string
	var updatedAt, deletedAt sql.NullString

	err := rows.Scan(
		&entity.ID, &entity.AthleteID, &entity.SessionDate, &entity.Kind, &entity.Shift, &entity.Partition,
		&entity.Recovery, &entity.Fatigue, &entity.Sleep, &entity.Stress, &entity.Pain,
		&painSegment, &painZones, &painSide,
		&tactical, &loadType, &rehabType, &condition, &entity.InPeriod, &note,
		&entity.SessionMinutes, &entity.RPE, &entity.InternalLoad,
		&entity.Status, &entity.RecordedBy, &recordedAt,
		&modifiedBy, &updatedAt, &deletedBy, &deletedAt,
	)
	if err != nil {
		return domain.Record{}, err
	}

	entity.PainSegmentID = int(painSegment.Int64)
	entity.LoadTypeID = int(loadType.Int64)
	entity.RehabTypeID = int(rehabType.Int64)
	entity.ConditionID = int(condition.Int64)
	entity.PainSide = painSide.String
	entity.TacticalPeriodization = tactical.String
	entity.Note = note.String
	entity.ModifiedBy = modifiedBy.String
	entity.DeletedBy = deletedBy.String

	if strings.HasPrefix(strings.TrimSpace(painZones), "[") {
		if err := json.Unmarshal([]byte(painZones), &entity.PainZones); err != nil {
			return domain.Record{}, fmt.Errorf("failed to decode pain zones: %w", err)
		}
	}

	entity.RecordedAt, err = parseStoredTime(recordedAt)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse recorded_at: %w", err)
	}
	if updatedAt.Valid {
		entity.UpdatedAt, err = parseStoredTime(updatedAt.String)
		if err != nil {
			return domain.Record{}, fmt.Errorf("failed to parse updated_at: %w", err)
		}
	}
	if deletedAt.Valid {
		entity.DeletedAt, err = parseStoredTime(deletedAt.String)
		if err != nil {
			return domain.Record{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
	}
	return entity, nil
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullableStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func parseStoredTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}
