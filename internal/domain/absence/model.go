package absence

import "errors"

// Absence holds state for an athlete absence window. Dates are
// YYYY-MM-DD strings, inclusive on both ends.
type Absence struct {
	ID        string
	AthleteID string
	TypeID    int
	StartDate string
	EndDate   string
	Reason    string
}

// Validate checks if the Absence has valid data.
// PRE: Absence struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Absence) Validate() error {
	if a.AthleteID == "" {
		return errors.New("absence must be associated with an athlete")
	}
	if a.StartDate == "" {
		return errors.New("absence start date must be set")
	}
	if a.EndDate != "" && a.EndDate < a.StartDate {
		return errors.New("absence end date cannot be before start date")
	}
	return nil
}

// CoversDate reports whether the absence window includes the given
// YYYY-MM-DD date. An empty EndDate means open-ended.
// INVARIANT: Absence fields are not mutated
func (a *Absence) CoversDate(date string) bool {
	if date < a.StartDate {
		return false
	}
	if a.EndDate == "" {
		return true
	}
	return date <= a.EndDate
}
