//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm/logger"
)

// newPostgresDatabase sobe um PostgreSQL descartável e aplica o schema
func newPostgresDatabase(t *testing.T) *database.Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("representacao_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewDatabase(ctx, database.Config{
		Driver:   "postgres",
		DSN:      dsn,
		LogLevel: logger.Silent,
	}, testutils.TestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgresOrderFlow(t *testing.T) {
	db := newPostgresDatabase(t)
	ctx := context.Background()
	log := testutils.TestLogger(t)

	require.NoError(t, database.NewSeeder(db, log).Seed(ctx, ""))

	users := database.NewUserRepository(db.DB(), log)
	companies := database.NewCompanyRepository(db.DB(), log)
	clients := database.NewClientRepository(db.DB(), log)
	products := database.NewProductRepository(db.DB(), log)
	orders := database.NewOrderRepository(db.DB(), log)

	user, err := users.GetByEmail(ctx, database.SampleUserEmail)
	require.NoError(t, err)
	list, err := companies.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	company := list[0]

	product, err := products.GetByCode(ctx, company.ID, "CAMISETA-001")
	require.NoError(t, err)

	client := &model.Client{CNPJ: "11222333000181", RazaoSocial: "Cliente Teste"}
	require.NoError(t, clients.Create(ctx, client))
	assert.ErrorIs(t, clients.Create(ctx, &model.Client{CNPJ: "11222333000181", RazaoSocial: "x"}), repository.ErrDuplicate)

	order := &model.Order{
		UserID: user.ID, CompanyID: company.ID, ClientID: client.ID,
		DiscountPercentage: decimal.Zero, TotalValue: decimal.RequireFromString("59.80"),
		Status: model.OrderStatusCompleted, OrderDate: time.Now().UTC(),
		Items: []*model.OrderItem{{ProductID: product.ID, Quantity: map[string]int{"M": 2}, UnitValue: product.Value}},
	}
	require.NoError(t, orders.Create(ctx, order))

	got, err := orders.GetByID(ctx, user.ID, company.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "59.80", got.TotalValue.StringFixed(2))
	assert.Equal(t, map[string]int{"M": 2}, got.Items[0].Quantity)

	assert.ErrorIs(t, products.Delete(ctx, company.ID, product.ID), repository.ErrInUse)
}
