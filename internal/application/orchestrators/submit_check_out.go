package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	wellnessstore "wellness/internal/adapters/storage/wellness"
	"wellness/internal/domain/wellness"
)

// RecordStoreForCheckOut defines the store interface needed by
// check-out submission.
type RecordStoreForCheckOut interface {
	CloseOpen(ctx context.Context, p wellnessstore.CloseParams) (int, error)
}

// SubmitCheckOutInput carries one post-session form.
type SubmitCheckOutInput struct {
	AthleteID      string
	SessionDate    string // YYYY-MM-DD
	Shift          string
	SessionMinutes int
	RPE            int
}

// SubmitCheckOutDeps holds dependencies for SubmitCheckOut.
type SubmitCheckOutDeps struct {
	RecordStore RecordStoreForCheckOut
	ActorEmail  string
	ActorRole   string

	// Injectable for testing
	Now func() time.Time
}

// ErrNoPriorCheckIn is returned when a check-out finds no open record
// for its tuple; a check-out never creates a record.
var ErrNoPriorCheckIn = errors.New("no prior check-in for this athlete, date and shift")

// ExecuteSubmitCheckOut closes the open record for the tuple with the
// post-session fields: duration, perceived exertion and the derived
// internal load. Only those fields, the status and the modification
// marker are written; everything the check-in recorded stays as it is.
// PRE: Actor identity comes from a resolved session
// POST: The open record is closed, or ErrNoPriorCheckIn
func ExecuteSubmitCheckOut(ctx context.Context, input SubmitCheckOutInput, deps SubmitCheckOutDeps) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	rec := wellness.Record{
		AthleteID:      input.AthleteID,
		Shift:          input.Shift,
		SessionMinutes: input.SessionMinutes,
		RPE:            input.RPE,
	}
	if err := rec.ValidateCheckOut(); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", input.SessionDate); err != nil {
		return wellness.ErrBadSessionDate
	}

	closed, err := deps.RecordStore.CloseOpen(ctx, wellnessstore.CloseParams{
		AthleteID:      input.AthleteID,
		SessionDate:    input.SessionDate,
		Shift:          input.Shift,
		Partition:      wellness.PartitionForRole(deps.ActorRole),
		SessionMinutes: input.SessionMinutes,
		RPE:            input.RPE,
		InternalLoad:   rec.ComputeInternalLoad(),
		ModifiedBy:     deps.ActorEmail,
		At:             now().UTC(),
	})
	if err != nil {
		return err
	}
	if closed == 0 {
		return ErrNoPriorCheckIn
	}

	slog.Info("wellness_event", "event", "check_out_recorded",
		"athlete_id", input.AthleteID, "date", input.SessionDate, "shift", input.Shift,
		"minutes", input.SessionMinutes, "rpe", input.RPE, "by", deps.ActorEmail)
	return nil
}
