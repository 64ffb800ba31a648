package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"wellness/internal/domain/wellness"
)

// RecordStoreForCheckIn defines the store interface needed by check-in
// submission.
type RecordStoreForCheckIn interface {
	UpsertCheckIn(ctx context.Context, value wellness.Record) error
}

// SubmitCheckInInput carries one pre-session wellness form.
type SubmitCheckInInput struct {
	AthleteID   string
	SessionDate string // YYYY-MM-DD
	Shift       string

	Recovery              int
	Fatigue               int
	Sleep                 int
	Stress                int
	Pain                  int
	PainSegmentID         int
	PainZones             []int
	PainSide              string
	TacticalPeriodization string
	LoadTypeID            int
	RehabTypeID           int
	ConditionID           int
	InPeriod              bool
	Note                  string
}

// SubmitCheckInDeps holds dependencies for SubmitCheckIn.
type SubmitCheckInDeps struct {
	RecordStore RecordStoreForCheckIn
	ActorEmail  string
	ActorRole   string

	// Injectable for testing
	Now func() time.Time
}

// ExecuteSubmitCheckIn records a pre-session wellness check-in. The
// write is a single atomic upsert: a repeated submission for the same
// (athlete, date, shift) overwrites the open record instead of adding a
// second one, and editing after a check-out does not reopen the record.
// The record lands in the partition of the actor's role.
// PRE: Actor identity comes from a resolved session
// POST: Exactly one open record exists for the tuple
func ExecuteSubmitCheckIn(ctx context.Context, input SubmitCheckInInput, deps SubmitCheckInDeps) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	rec := wellness.Record{
		AthleteID:   input.AthleteID,
		SessionDate: input.SessionDate,
		Kind:        wellness.KindCheckIn,
		Shift:       input.Shift,
		Partition:   wellness.PartitionForRole(deps.ActorRole),

		Recovery:              input.Recovery,
		Fatigue:               input.Fatigue,
		Sleep:                 input.Sleep,
		Stress:                input.Stress,
		Pain:                  input.Pain,
		PainSegmentID:         input.PainSegmentID,
		PainZones:             input.PainZones,
		PainSide:              input.PainSide,
		TacticalPeriodization: input.TacticalPeriodization,
		LoadTypeID:            input.LoadTypeID,
		RehabTypeID:           input.RehabTypeID,
		ConditionID:           input.ConditionID,
		InPeriod:              input.InPeriod,
		Note:                  input.Note,

		Status:     wellness.StatusOpen,
		RecordedBy: deps.ActorEmail,
		RecordedAt: now().UTC(),
	}

	if err := rec.Validate(); err != nil {
		return err
	}

	if err := deps.RecordStore.UpsertCheckIn(ctx, rec); err != nil {
		return err
	}

	slog.Info("wellness_event", "event", "check_in_recorded",
		"athlete_id", rec.AthleteID, "date", rec.SessionDate, "shift", rec.Shift,
		"data_partition", rec.Partition, "by", rec.RecordedBy)
	return nil
}
