package database_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationManager(t *testing.T) {
	db := testutils.NewTestDatabase(t)
	ctx := context.Background()

	files := fstest.MapFS{
		"20260101000000_orders_status_index.sql": {Data: []byte(`
-- índice para o dashboard; o ';' do comentário não separa comandos
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
INSERT INTO payment_methods (name, is_active, created_at, updated_at)
VALUES ('Crediário; loja', true, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
`)},
		"20260201000000_noop.sql": {Data: []byte(`/* nada; a fazer */ SELECT 1;`)},
		"leiame.txt":              {Data: []byte("ignorado")},
		"semversao.sql":           {Data: []byte("SELECT 1;")},
	}

	manager := database.NewMigrationManager(db.DB(), testutils.TestLogger(t), "").WithFS(files)

	pending, err := manager.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(20260101000000), pending[0].Version)
	assert.Equal(t, "orders_status_index", pending[0].Name)

	require.NoError(t, manager.ApplyMigrations(ctx))

	var name string
	require.NoError(t, db.DB().Raw("SELECT name FROM payment_methods WHERE name LIKE 'Crediário%'").Scan(&name).Error)
	assert.Equal(t, "Crediário; loja", name)

	pending, err = manager.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// aplicar de novo não executa nada
	require.NoError(t, manager.ApplyMigrations(ctx))
}

func TestCreateMigration(t *testing.T) {
	db := testutils.NewTestDatabase(t)
	dir := t.TempDir()

	manager := database.NewMigrationManager(db.DB(), testutils.TestLogger(t), dir)
	path, err := manager.CreateMigration("Add Client Index")
	require.NoError(t, err)
	assert.Contains(t, path, "_add_client_index.sql")

	_, err = manager.CreateMigration("  ")
	assert.Error(t, err)

	_, err = database.NewMigrationManager(db.DB(), testutils.TestLogger(t), "").CreateMigration("x")
	assert.Error(t, err)
}
