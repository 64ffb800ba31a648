package wellness

import (
	"errors"
	"strings"
	"time"
)

// Record status lifecycle. A record is "open" for uniqueness purposes
// while status <= StatusClosed; soft-deleted records fall out of every
// query and uniqueness check.
const (
	StatusOpen    = 1
	StatusClosed  = 2
	StatusDeleted = 3
)

// Record kinds. A record is created by a check-in and flips to
// checkout when the post-session form closes it.
const (
	KindCheckIn  = "checkin"
	KindCheckOut = "checkout"
)

// Data partitions. Records written by the developer role are invisible
// to production users and vice versa.
const (
	PartitionProduction = "production"
	PartitionDeveloper  = "developer"
)

// Shifts partition the day; eligibility and uniqueness are scoped per shift.
const (
	Shift1 = "turno 1"
	Shift2 = "turno 2"
	Shift3 = "turno 3"
)

// Shifts lists the valid shift values in display order.
var Shifts = []string{Shift1, Shift2, Shift3}

// Domain errors
var (
	ErrMissingAthlete = errors.New("record must be associated with an athlete")
	ErrBadSessionDate = errors.New("session date must be YYYY-MM-DD")
	ErrBadShift       = errors.New("shift is not valid")
	ErrBadScore       = errors.New("wellness scores must be between 1 and 10")
	ErrBadDuration    = errors.New("session duration must be positive")
	ErrBadRPE         = errors.New("perceived exertion must be between 1 and 10")
)

// Record holds one wellness observation for (athlete, session date, shift).
// Check-in-origin fields are written by the pre-session form; check-out-origin
// fields by the post-session form.
type Record struct {
	ID          int64
	AthleteID   string
	SessionDate string // YYYY-MM-DD
	Kind        string
	Shift       string
	Partition   string

	// Check-in origin
	Recovery              int
	Fatigue               int
	Sleep                 int
	Stress                int
	Pain                  int
	PainSegmentID         int
	PainZones             []int // anatomical zone catalog ids, stored as JSON
	PainSide              string
	TacticalPeriodization string
	LoadTypeID            int
	RehabTypeID           int
	ConditionID           int
	InPeriod              bool
	Note                  string

	// Check-out origin
	SessionMinutes int
	RPE            int
	InternalLoad   int // SessionMinutes × RPE

	Status     int
	RecordedBy string
	RecordedAt time.Time
	ModifiedBy string
	UpdatedAt  time.Time
	DeletedBy  string
	DeletedAt  time.Time
}

// ValidShift reports whether s is one of the configured shifts.
func ValidShift(s string) bool {
	for _, shift := range Shifts {
		if shift == s {
			return true
		}
	}
	return false
}

// PartitionForRole maps an actor role to its data partition.
// The developer role writes into the isolated test-data partition.
func PartitionForRole(role string) string {
	if strings.EqualFold(role, "developer") {
		return PartitionDeveloper
	}
	return PartitionProduction
}

// ComputeInternalLoad returns the derived training-load unit.
// INVARIANT: Record fields are not mutated
func (r *Record) ComputeInternalLoad() int {
	return r.SessionMinutes * r.RPE
}

// Validate checks the check-in-origin fields of a record.
// PRE: Record struct is populated from a check-in form
// POST: Returns error if validation fails, nil otherwise
func (r *Record) Validate() error {
	if r.AthleteID == "" {
		return ErrMissingAthlete
	}
	if _, err := time.Parse("2006-01-02", r.SessionDate); err != nil {
		return ErrBadSessionDate
	}
	if !ValidShift(r.Shift) {
		return ErrBadShift
	}
	for _, score := range []int{r.Recovery, r.Fatigue, r.Sleep, r.Stress} {
		if score < 1 || score > 10 {
			return ErrBadScore
		}
	}
	if r.Pain < 0 || r.Pain > 10 {
		return ErrBadScore
	}
	return nil
}

// ValidateCheckOut checks the check-out-origin fields.
// PRE: Record carries SessionMinutes and RPE from a check-out form
// POST: Returns error if validation fails, nil otherwise
func (r *Record) ValidateCheckOut() error {
	if r.AthleteID == "" {
		return ErrMissingAthlete
	}
	if !ValidShift(r.Shift) {
		return ErrBadShift
	}
	if r.SessionMinutes <= 0 {
		return ErrBadDuration
	}
	if r.RPE < 1 || r.RPE > 10 {
		return ErrBadRPE
	}
	return nil
}

// IsOpen reports whether the record still counts for the
// (athlete, date, shift) uniqueness rule.
// INVARIANT: Record fields are not mutated
func (r *Record) IsOpen() bool {
	return r.Status <= StatusClosed
}

// IsClosed reports whether a check-out already closed the record.
// INVARIANT: Record fields are not mutated
func (r *Record) IsClosed() bool {
	return r.Status == StatusClosed
}

// IsDeleted reports whether the record was soft-deleted.
// INVARIANT: Record fields are not mutated
func (r *Record) IsDeleted() bool {
	return r.Status == StatusDeleted
}
