package database_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

func newMockDatabase(t *testing.T) (*database.Database, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	db, err := database.Open(context.Background(), dialector, database.Config{
		LogLevel:       logger.Silent,
		SkipMigrations: true,
	}, testutils.TestLogger(t))
	require.NoError(t, err)
	return db, mock
}

func TestProductRepository_Postgres(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := database.NewProductRepository(db.DB(), testutils.TestLogger(t))
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT * FROM "products" WHERE company_id = $1 AND code = $2`)

	t.Run("encontra produto", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "company_id", "code", "description", "value", "sizes"}).
			AddRow(7, 1, "CAMISETA-001", "Camiseta", "29.90", `["P","M"]`)
		mock.ExpectQuery(query).WithArgs(1, "CAMISETA-001", 1).WillReturnRows(rows)

		p, err := repo.GetByCode(ctx, 1, "CAMISETA-001")
		require.NoError(t, err)
		assert.Equal(t, uint(7), p.ID)
		assert.Equal(t, []string{"P", "M"}, p.Sizes)
		assert.Equal(t, "29.90", p.Value.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("não encontrado", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(1, "XX", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByCode(ctx, 1, "XX")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusão de produto em uso", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "order_items" WHERE product_id = $1`)).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		err := repo.Delete(ctx, 1, 7)
		assert.ErrorIs(t, err, repository.ErrInUse)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
