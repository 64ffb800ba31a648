package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrNoRecordsSelected is returned when a deletion is submitted with an
// empty id list; the no-op is reported as a failure, never as a silent
// success.
var ErrNoRecordsSelected = errors.New("no records selected")

// RecordStoreForDeletion defines the store interface needed by record
// deletion.
type RecordStoreForDeletion interface {
	SoftDelete(ctx context.Context, ids []int64, actor string, at time.Time) (int, error)
}

// SoftDeleteRecordsInput carries the records picked for deletion.
type SoftDeleteRecordsInput struct {
	IDs []int64
}

// SoftDeleteRecordsResult reports the deletion outcome for display.
type SoftDeleteRecordsResult struct {
	Deleted int
	Message string
}

// SoftDeleteRecordsDeps holds dependencies for SoftDeleteRecords.
type SoftDeleteRecordsDeps struct {
	RecordStore RecordStoreForDeletion
	ActorEmail  string

	// Injectable for testing
	Now func() time.Time
}

// ExecuteSoftDeleteRecords marks the selected records deleted in one
// batch. Rows disappear from every listing but stay in the table with
// the deletion timestamp and actor; their (athlete, date, shift) tuples
// become reusable. An empty selection is rejected with
// ErrNoRecordsSelected before the store is touched.
// PRE: Actor identity comes from a resolved session
// POST: Returns a user-facing summary, or ErrNoRecordsSelected
func ExecuteSoftDeleteRecords(ctx context.Context, input SoftDeleteRecordsInput, deps SoftDeleteRecordsDeps) (SoftDeleteRecordsResult, error) {
	if len(input.IDs) == 0 {
		return SoftDeleteRecordsResult{}, ErrNoRecordsSelected
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	deleted, err := deps.RecordStore.SoftDelete(ctx, input.IDs, deps.ActorEmail, now().UTC())
	if err != nil {
		return SoftDeleteRecordsResult{}, err
	}

	slog.Info("wellness_event", "event", "records_deleted",
		"requested", len(input.IDs), "deleted", deleted, "by", deps.ActorEmail)

	return SoftDeleteRecordsResult{
		Deleted: deleted,
		Message: fmt.Sprintf("deleted %d record(s)", deleted),
	}, nil
}
