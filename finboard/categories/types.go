package categories

import "codeberg.org/finboard/server/internal/storage"

// handles category database operations
type Repository struct {
	db storage.DB
}

// income or expense, stored with the values the app's categorias table uses
type Kind string

const (
	KindIncome  Kind = "receita"
	KindExpense Kind = "despesa"
)

// a transaction category owned by one user
type Category struct {
	Nome   string `json:"nome"`
	Tipo   Kind   `json:"tipo"`
	Cor    string `json:"cor"`
	Icone  string `json:"icone"`
	UserID string `json:"user_id"`
}
