package catalog

import "errors"

// Catalog names. Each catalog is a flat id -> name lookup backing a
// form select.
const (
	PainZone    = "pain_zone"
	PainSegment = "pain_segment"
	LoadType    = "load_type"
	RehabType   = "rehab_type"
	Condition   = "condition"
	AbsenceType = "absence_type"
)

// Item holds one entry of a lookup catalog.
type Item struct {
	Catalog string
	ID      int
	Name    string
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if i.Catalog == "" {
		return errors.New("catalog item must name its catalog")
	}
	if i.ID <= 0 {
		return errors.New("catalog item id must be positive")
	}
	if i.Name == "" {
		return errors.New("catalog item name must be set")
	}
	return nil
}
