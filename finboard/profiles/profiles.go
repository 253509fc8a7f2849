package profiles

import (
	"context"
	"fmt"

	"codeberg.org/finboard/server/internal/storage"
)

// creates a new profile repository
func NewRepository(db storage.DB) *Repository {
	return &Repository{db: db}
}

// inserts the profile or overwrites its listed columns
func (r *Repository) Upsert(ctx context.Context, p Profile) error {
	_, err := r.db.Exec(
		ctx,
		queryUpsert,
		p.ID,
		p.Email,
		p.Name,
		p.OrganizationName,
		p.Telefone,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", p.ID, err)
	}

	return nil
}

// finds a profile by its user id
func (r *Repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile

	err := r.db.QueryRow(ctx, queryFindByID, id).Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.OrganizationName,
		&p.Telefone,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &p, nil
}
