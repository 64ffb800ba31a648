package athlete

import (
	"context"

	domain "wellness/internal/domain/athlete"
)

// Store persists Athlete state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Athlete, error)
	Save(ctx context.Context, value domain.Athlete) error
	List(ctx context.Context) ([]domain.Athlete, error)
	ListByRoster(ctx context.Context, roster string) ([]domain.Athlete, error)
}
