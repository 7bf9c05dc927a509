package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.True(t, cfg.Database.Seed)
		assert.Equal(t, 10*time.Second, cfg.CNPJ.Timeout)
		assert.Equal(t, []string{"https://representacao-frontend.onrender.com"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, 6, cfg.Auth.PasswordMinLen)
	})

	t.Run("FileAndEnv", func(t *testing.T) {
		dir := t.TempDir()
		content := []byte("server:\n  port: 9090\ndatabase:\n  driver: postgres\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

		t.Setenv("JWT_SECRET_KEY", "segredo")
		t.Setenv("RP_CACHE_TYPE", "memory")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "segredo", cfg.Auth.JWTSecret)
	})

	t.Run("InvalidDriver", func(t *testing.T) {
		dir := t.TempDir()
		content := []byte("database:\n  driver: oracle\n")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

		_, err := LoadConfig(dir)
		assert.Error(t, err)
	})
}
