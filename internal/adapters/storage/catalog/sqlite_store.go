package catalog

import (
	"context"

	"wellness/internal/adapters/storage"
	domain "wellness/internal/domain/catalog"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new catalog store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// ListByCatalog retrieves all items of one catalog ordered by id.
// PRE: catalog is non-empty
// POST: Returns the catalog items
func (s *SQLiteStore) ListByCatalog(ctx context.Context, catalog string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT catalog, id, name FROM catalog_item WHERE catalog = ? ORDER BY id", catalog)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		var entity domain.Item
		if err := rows.Scan(&entity.Catalog, &entity.ID, &entity.Name); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// NamesByCatalog retrieves one catalog as an id -> name map, the shape
// record log hydration wants.
// PRE: catalog is non-empty
// POST: Returns the id to name mapping
func (s *SQLiteStore) NamesByCatalog(ctx context.Context, catalog string) (map[int]string, error) {
	items, err := s.ListByCatalog(ctx, catalog)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	return names, nil
}

// Save persists a catalog Item.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_item (catalog, id, name)
		VALUES (?, ?, ?)
		ON CONFLICT(catalog, id) DO UPDATE SET name=excluded.name`,
		entity.Catalog, entity.ID, entity.Name)
	return err
}
