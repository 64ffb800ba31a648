package wellness

import (
	"context"
	"time"

	domain "wellness/internal/domain/wellness"
)

// Store persists wellness Record state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Record, error)
	FindOpen(ctx context.Context, athleteID, sessionDate, shift, partition string) (domain.Record, bool, error)
	UpsertCheckIn(ctx context.Context, value domain.Record) error
	CloseOpen(ctx context.Context, p CloseParams) (int, error)
	SoftDelete(ctx context.Context, ids []int64, actor string, at time.Time) (int, error)
	ListOpenByDateShift(ctx context.Context, sessionDate, shift, partition string) ([]domain.Record, error)
	ListByPartition(ctx context.Context, partition string) ([]domain.Record, error)
}

// CloseParams carries the restricted check-out field set. Nothing else
// on the record may be touched by a check-out.
type CloseParams struct {
	AthleteID      string
	SessionDate    string
	Shift          string
	Partition      string
	SessionMinutes int
	RPE            int
	InternalLoad   int
	ModifiedBy     string
	At             time.Time
}
