package wellness

import "testing"

func validRecord() Record {
	return Record{
		AthleteID:   "ath-1",
		SessionDate: "2026-03-02",
		Kind:        KindCheckIn,
		Shift:       Shift1,
		Recovery:    7,
		Fatigue:     5,
		Sleep:       8,
		Stress:      3,
		Pain:        0,
	}
}

// TestValidate tests check-in field validation.
func TestValidate(t *testing.T) {
	r := validRecord()
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r = validRecord()
	r.AthleteID = ""
	if err := r.Validate(); err != ErrMissingAthlete {
		t.Errorf("expected ErrMissingAthlete, got %v", err)
	}

	r = validRecord()
	r.SessionDate = "02/03/2026"
	if err := r.Validate(); err != ErrBadSessionDate {
		t.Errorf("expected ErrBadSessionDate, got %v", err)
	}

	r = validRecord()
	r.Shift = "turno 9"
	if err := r.Validate(); err != ErrBadShift {
		t.Errorf("expected ErrBadShift, got %v", err)
	}

	r = validRecord()
	r.Recovery = 11
	if err := r.Validate(); err != ErrBadScore {
		t.Errorf("expected ErrBadScore, got %v", err)
	}

	r = validRecord()
	r.Pain = -1
	if err := r.Validate(); err != ErrBadScore {
		t.Errorf("expected ErrBadScore for negative pain, got %v", err)
	}
}

// TestValidateCheckOut tests check-out field validation.
func TestValidateCheckOut(t *testing.T) {
	r := Record{AthleteID: "ath-1", Shift: Shift2, SessionMinutes: 75, RPE: 6}
	if err := r.ValidateCheckOut(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.SessionMinutes = 0
	if err := r.ValidateCheckOut(); err != ErrBadDuration {
		t.Errorf("expected ErrBadDuration, got %v", err)
	}

	r.SessionMinutes = 75
	r.RPE = 11
	if err := r.ValidateCheckOut(); err != ErrBadRPE {
		t.Errorf("expected ErrBadRPE, got %v", err)
	}
}

// TestComputeInternalLoad tests the duration × exertion derivation.
func TestComputeInternalLoad(t *testing.T) {
	r := Record{SessionMinutes: 90, RPE: 7}
	if got := r.ComputeInternalLoad(); got != 630 {
		t.Errorf("ComputeInternalLoad() = %d, want 630", got)
	}
}

// TestStatusLifecycle tests the open/closed/deleted predicates.
func TestStatusLifecycle(t *testing.T) {
	open := Record{Status: StatusOpen}
	closed := Record{Status: StatusClosed}
	deleted := Record{Status: StatusDeleted}

	if !open.IsOpen() || open.IsClosed() || open.IsDeleted() {
		t.Error("status=1 must be open only")
	}
	if !closed.IsOpen() || !closed.IsClosed() {
		t.Error("status=2 must count as open for uniqueness and be closed")
	}
	if deleted.IsOpen() || !deleted.IsDeleted() {
		t.Error("status=3 must be deleted and not open")
	}
}

// TestPartitionForRole tests the developer partition mapping.
func TestPartitionForRole(t *testing.T) {
	if PartitionForRole("Developer") != PartitionDeveloper {
		t.Error("developer role must map to developer partition")
	}
	if PartitionForRole("coach") != PartitionProduction {
		t.Error("coach role must map to production partition")
	}
	if PartitionForRole("") != PartitionProduction {
		t.Error("empty role must map to production partition")
	}
}

// TestValidShift tests shift validation.
func TestValidShift(t *testing.T) {
	for _, s := range Shifts {
		if !ValidShift(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidShift("turno 4") {
		t.Error("turno 4 must not be valid")
	}
}
