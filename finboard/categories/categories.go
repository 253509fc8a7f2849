package categories

import (
	"context"
	"fmt"

	"codeberg.org/finboard/server/internal/storage"
)

// creates a new category repository
func NewRepository(db storage.DB) *Repository {
	return &Repository{db: db}
}

// reports whether the user owns at least one category
func (r *Repository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool

	if err := r.db.QueryRow(ctx, queryExists, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check categories for %s: %w", userID, err)
	}

	return exists, nil
}

// inserts a single category row
func (r *Repository) Insert(ctx context.Context, c Category) error {
	_, err := r.db.Exec(ctx, queryInsert, c.Nome, string(c.Tipo), c.Cor, c.Icone, c.UserID)
	if err != nil {
		return fmt.Errorf("failed to insert category %q: %w", c.Nome, err)
	}

	return nil
}

// returns how many categories the user owns
func (r *Repository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int

	if err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories for %s: %w", userID, err)
	}

	return count, nil
}
