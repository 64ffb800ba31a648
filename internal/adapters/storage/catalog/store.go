package catalog

import (
	"context"

	domain "wellness/internal/domain/catalog"
)

// Store persists catalog Item state.
type Store interface {
	ListByCatalog(ctx context.Context, catalog string) ([]domain.Item, error)
	NamesByCatalog(ctx context.Context, catalog string) (map[int]string, error)
	Save(ctx context.Context, value domain.Item) error
}
