package absence

import (
	"context"

	domain "wellness/internal/domain/absence"
)

// Store persists Absence state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Absence, error)
	Save(ctx context.Context, value domain.Absence) error
	List(ctx context.Context) ([]domain.Absence, error)
	ListActiveOn(ctx context.Context, date string) ([]domain.Absence, error)
	Delete(ctx context.Context, id string) error
}
