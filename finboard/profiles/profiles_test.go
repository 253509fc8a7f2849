package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("u1", "a@b.com", "Usuário", "Minha Empresa", "", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewRepository(mock)
	err = repo.Upsert(context.Background(), Profile{
		ID:               "u1",
		Email:            "a@b.com",
		Name:             "Usuário",
		OrganizationName: "Minha Empresa",
		UpdatedAt:        now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_WrapsStoreError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	storeErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO profiles").WillReturnError(storeErr)

	err = NewRepository(mock).Upsert(context.Background(), Profile{ID: "u1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "u1")
}

func TestFindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, email, name, organization_name, telefone, updated_at").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "organization_name", "telefone", "updated_at"}).
			AddRow("u1", "a@b.com", "Ana", "Acme", "5511999999999", now))

	p, err := NewRepository(mock).FindByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "Acme", p.OrganizationName)
	assert.Equal(t, "5511999999999", p.Telefone)
}

func TestFindByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, email").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err = NewRepository(mock).FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
