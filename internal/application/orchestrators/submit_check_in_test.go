package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellness/internal/domain/wellness"
)

type memCheckInStore struct {
	upserts []wellness.Record
	err     error
}

// UpsertCheckIn records the upserted value in memory.
func (s *memCheckInStore) UpsertCheckIn(_ context.Context, value wellness.Record) error {
	if s.err != nil {
		return s.err
	}
	s.upserts = append(s.upserts, value)
	return nil
}

func validCheckInInput() SubmitCheckInInput {
	return SubmitCheckInInput{
		AthleteID:   "ath-1",
		SessionDate: "2026-03-02",
		Shift:       wellness.Shift1,
		Recovery:    7,
		Fatigue:     5,
		Sleep:       8,
		Stress:      3,
		Pain:        2,
		PainZones:   []int{4},
		Note:        "ok",
	}
}

// TestSubmitCheckIn_BuildsOpenRecord verifies the record shape handed
// to the store: open status, check-in kind, actor partition and marker.
func TestSubmitCheckIn_BuildsOpenRecord(t *testing.T) {
	store := &memCheckInStore{}
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	deps := SubmitCheckInDeps{
		RecordStore: store,
		ActorEmail:  "coach@test.com",
		ActorRole:   "coach",
		Now:         func() time.Time { return now },
	}

	if err := ExecuteSubmitCheckIn(context.Background(), validCheckInInput(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(store.upserts))
	}

	rec := store.upserts[0]
	if rec.Status != wellness.StatusOpen || rec.Kind != wellness.KindCheckIn {
		t.Errorf("record = status %d kind %q, want open checkin", rec.Status, rec.Kind)
	}
	if rec.Partition != wellness.PartitionProduction {
		t.Errorf("partition = %q, want production for coach", rec.Partition)
	}
	if rec.RecordedBy != "coach@test.com" || !rec.RecordedAt.Equal(now) {
		t.Errorf("marker = %q at %v", rec.RecordedBy, rec.RecordedAt)
	}
}

// TestSubmitCheckIn_DeveloperPartition verifies developer submissions
// land in the isolated partition.
func TestSubmitCheckIn_DeveloperPartition(t *testing.T) {
	store := &memCheckInStore{}
	deps := SubmitCheckInDeps{RecordStore: store, ActorEmail: "dev@test.com", ActorRole: "Developer"}

	if err := ExecuteSubmitCheckIn(context.Background(), validCheckInInput(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.upserts[0].Partition != wellness.PartitionDeveloper {
		t.Errorf("partition = %q, want developer", store.upserts[0].Partition)
	}
}

// TestSubmitCheckIn_RejectsBadScores verifies validation runs before
// any write.
func TestSubmitCheckIn_RejectsBadScores(t *testing.T) {
	store := &memCheckInStore{}
	deps := SubmitCheckInDeps{RecordStore: store, ActorEmail: "coach@test.com", ActorRole: "coach"}

	input := validCheckInInput()
	input.Recovery = 11
	if err := ExecuteSubmitCheckIn(context.Background(), input, deps); !errors.Is(err, wellness.ErrBadScore) {
		t.Fatalf("error = %v, want ErrBadScore", err)
	}
	if len(store.upserts) != 0 {
		t.Error("invalid input must not reach the store")
	}
}

// TestSubmitCheckIn_RejectsBadShift verifies an unknown shift fails.
func TestSubmitCheckIn_RejectsBadShift(t *testing.T) {
	deps := SubmitCheckInDeps{RecordStore: &memCheckInStore{}, ActorEmail: "coach@test.com", ActorRole: "coach"}

	input := validCheckInInput()
	input.Shift = "turno 9"
	if err := ExecuteSubmitCheckIn(context.Background(), input, deps); !errors.Is(err, wellness.ErrBadShift) {
		t.Fatalf("error = %v, want ErrBadShift", err)
	}
}

// TestSubmitCheckIn_StoreErrorPropagates verifies storage failures
// surface to the caller.
func TestSubmitCheckIn_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	deps := SubmitCheckInDeps{RecordStore: &memCheckInStore{err: boom}, ActorEmail: "coach@test.com", ActorRole: "coach"}

	if err := ExecuteSubmitCheckIn(context.Background(), validCheckInInput(), deps); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want store error", err)
	}
}
