package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeder := database.NewSeeder(f.db, testutils.TestLogger(t))

	require.NoError(t, seeder.Seed(ctx, ""))

	methods, err := f.payments.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, methods, len(database.DefaultPaymentMethods))

	user, err := f.users.GetByEmail(ctx, database.SampleUserEmail)
	require.NoError(t, err)

	companies, err := f.company.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)

	products, err := f.products.ListByCompany(ctx, companies[0].ID)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	// rodar de novo não duplica nada
	require.NoError(t, seeder.Seed(ctx, ""))
	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	methods, err = f.payments.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, methods, len(database.DefaultPaymentMethods))
}

func TestCatalogLoader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, company := f.tenant(t, "ana@exemplo.com", "11222333000181")
	loader := database.NewCatalogLoader(f.products, testutils.TestLogger(t))

	dir := t.TempDir()
	file := filepath.Join(dir, "catalogo.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"code": "CAMISETA-001", "description": "Camiseta", "value": 29.9, "sizes": ["P", "M"]},
		{"code": "", "description": "sem código", "value": 1},
		{"code": "BONE-001", "description": "Boné", "value": "19.90", "sizes": ["U"]}
	]`), 0644))

	n, err := loader.LoadFile(ctx, company.ID, file)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// segunda carga atualiza pelo código
	require.NoError(t, os.WriteFile(file, []byte(`[{"code": "BONE-001", "description": "Boné Aba Reta", "value": 24.9, "sizes": ["U"]}]`), 0644))
	n, err = loader.LoadFile(ctx, company.ID, file)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	products, err := f.products.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Boné Aba Reta", products[0].Description)
	assert.Equal(t, "24.90", products[0].Value.StringFixed(2))

	n, err = loader.LoadFile(ctx, company.ID, filepath.Join(dir, "inexistente.json"))
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, os.WriteFile(file, []byte(`{quebrado`), 0644))
	_, err = loader.LoadFile(ctx, company.ID, file)
	assert.Error(t, err)
}
