package categories

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog("u1")

	require.Len(t, catalog, 15)

	var income, expense int
	names := make(map[string]bool)

	for _, c := range catalog {
		assert.Equal(t, "u1", c.UserID)
		assert.NotEmpty(t, c.Icone)
		assert.Regexp(t, `^#[0-9A-F]{6}$`, c.Cor)
		assert.False(t, names[c.Nome], "duplicate category %q", c.Nome)
		names[c.Nome] = true

		switch c.Tipo {
		case KindIncome:
			income++
		case KindExpense:
			expense++
		default:
			t.Errorf("unexpected kind %q", c.Tipo)
		}
	}

	assert.Equal(t, 5, income)
	assert.Equal(t, 10, expense)
	assert.Equal(t, "Salário", catalog[0].Nome)
	assert.Equal(t, "Serviços de Streaming", catalog[14].Nome)
}

func TestDefaultCatalog_ReturnsCopies(t *testing.T) {
	a := DefaultCatalog("u1")
	a[0].Nome = "changed"

	b := DefaultCatalog("u2")

	assert.Equal(t, "Salário", b[0].Nome)
	assert.Equal(t, "u2", b[0].UserID)
	assert.Empty(t, defaultCatalog[0].UserID)
}

func TestExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := NewRepository(mock).Exists(context.Background(), "u1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").WithArgs("u1").WillReturnError(errors.New("timeout"))

	_, err = NewRepository(mock).Exists(context.Background(), "u1")

	assert.ErrorContains(t, err, "failed to check categories for u1")
}

func TestInsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO categorias").
		WithArgs("Salário", "receita", "#10B981", "DollarSign", "u1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewRepository(mock).Insert(context.Background(), DefaultCatalog("u1")[0])

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(15))

	count, err := NewRepository(mock).CountByUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 15, count)
}
