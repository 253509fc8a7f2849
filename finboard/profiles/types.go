package profiles

import (
	"time"

	"codeberg.org/finboard/server/internal/storage"
)

// handles profile database operations
type Repository struct {
	db storage.DB
}

// one profile per auth user, keyed by the user id
type Profile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	OrganizationName string    `json:"organization_name"`
	Telefone         string    `json:"telefone"`
	UpdatedAt        time.Time `json:"updated_at"`
}
