package athlete

import (
	"errors"
	"strings"
)

// Athlete holds state for a roster entry. Roster is the competition
// code the athlete currently belongs to.
type Athlete struct {
	ID       string
	Name     string
	LastName string
	Roster   string
	Active   bool
}

// Validate checks if the Athlete has valid data.
// PRE: Athlete struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Athlete) Validate() error {
	if a.ID == "" {
		return errors.New("athlete id cannot be empty")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("athlete name cannot be empty")
	}
	if a.Roster == "" {
		return errors.New("athlete must belong to a roster")
	}
	return nil
}

// FullName returns "Name LastName" with surrounding whitespace trimmed.
// INVARIANT: Athlete fields are not mutated
func (a *Athlete) FullName() string {
	return strings.TrimSpace(a.Name + " " + a.LastName)
}
