package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when the file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, StoreSQLite, cfg.Store.Type)
		assert.Equal(t, "pet.db", cfg.Store.Path)
		assert.Equal(t, "pet.events", cfg.Amqp.Exchange)
		assert.Empty(t, cfg.Amqp.Url)
	})

	t.Run("should override defaults from yaml and env", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "port: 8080\nstore:\n  type: postgres\ndb:\n  host: db.local\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("PET_DB_NAME", "expenses")
		t.Setenv("PET_SHEETS_SPREADSHEETID", "sheet-123")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, StorePostgres, cfg.Store.Type)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, "expenses", cfg.Database.Name)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetId)
	})

	t.Run("should reject an unknown store type", func(t *testing.T) {
		// given
		t.Setenv("PET_STORE_TYPE", "redis")

		// when
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		assert.ErrorContains(t, err, "store.type")
	})
}
