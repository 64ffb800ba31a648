package projections

import (
	"context"

	"wellness/internal/domain/absence"
	"wellness/internal/domain/athlete"
	"wellness/internal/domain/selection"
	"wellness/internal/domain/wellness"
)

// EligibilityAthleteStore defines the athlete store interface needed by
// the eligibility projection.
type EligibilityAthleteStore interface {
	ListByRoster(ctx context.Context, roster string) ([]athlete.Athlete, error)
}

// EligibilityAbsenceStore defines the absence store interface needed by
// the eligibility projection.
type EligibilityAbsenceStore interface {
	ListActiveOn(ctx context.Context, date string) ([]absence.Absence, error)
}

// EligibilityRecordStore defines the record store interface needed by
// the eligibility projection.
type EligibilityRecordStore interface {
	ListOpenByDateShift(ctx context.Context, sessionDate, shift, partition string) ([]wellness.Record, error)
}

// GetEligibleAthletesQuery carries input for the eligibility projection.
type GetEligibleAthletesQuery struct {
	Roster      string
	SessionDate string // YYYY-MM-DD
	Shift       string
	Action      string // selection.ActionCheckIn or selection.ActionCheckOut
	ActorRole   string // picks the data partition
}

// GetEligibleAthletesDeps holds dependencies for the eligibility projection.
type GetEligibleAthletesDeps struct {
	AthleteStore EligibilityAthleteStore
	AbsenceStore EligibilityAbsenceStore
	RecordStore  EligibilityRecordStore
}

// QueryGetEligibleAthletes computes which athletes a form may offer for
// its (roster, date, shift, action) context, preserving the store's
// name ordering so the first candidate is deterministic.
//
// For check-in: active roster athletes without an absence covering the
// date and without any open record for the tuple — a closed record
// blocks a second check-in the same as an open one.
//
// For check-out: athletes whose tuple has a record still in the
// checked-in state; a finished check-out removes them from the list.
func QueryGetEligibleAthletes(ctx context.Context, query GetEligibleAthletesQuery, deps GetEligibleAthletesDeps) ([]athlete.Athlete, error) {
	roster, err := deps.AthleteStore.ListByRoster(ctx, query.Roster)
	if err != nil {
		return nil, err
	}

	open, err := deps.RecordStore.ListOpenByDateShift(ctx, query.SessionDate, query.Shift, wellness.PartitionForRole(query.ActorRole))
	if err != nil {
		return nil, err
	}

	if query.Action == selection.ActionCheckOut {
		return eligibleForCheckOut(roster, open), nil
	}
	return eligibleForCheckIn(ctx, query, deps, roster, open)
}

func eligibleForCheckIn(ctx context.Context, query GetEligibleAthletesQuery, deps GetEligibleAthletesDeps, roster []athlete.Athlete, open []wellness.Record) ([]athlete.Athlete, error) {
	absences, err := deps.AbsenceStore.ListActiveOn(ctx, query.SessionDate)
	if err != nil {
		return nil, err
	}

	blocked := make(map[string]bool)
	for _, a := range absences {
		if a.CoversDate(query.SessionDate) {
			blocked[a.AthleteID] = true
		}
	}
	for _, r := range open {
		blocked[r.AthleteID] = true
	}

	eligible := make([]athlete.Athlete, 0, len(roster))
	for _, a := range roster {
		if !blocked[a.ID] {
			eligible = append(eligible, a)
		}
	}
	return eligible, nil
}

func eligibleForCheckOut(roster []athlete.Athlete, open []wellness.Record) []athlete.Athlete {
	awaiting := make(map[string]bool)
	for _, r := range open {
		if r.Status == wellness.StatusOpen && r.Kind == wellness.KindCheckIn {
			awaiting[r.AthleteID] = true
		}
	}

	eligible := make([]athlete.Athlete, 0, len(roster))
	for _, a := range roster {
		if awaiting[a.ID] {
			eligible = append(eligible, a)
		}
	}
	return eligible
}
