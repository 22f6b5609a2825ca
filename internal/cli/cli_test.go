package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pettracker/pet/internal/app"
	"github.com/pettracker/pet/internal/config"
	"github.com/pettracker/pet/internal/utils"
	"github.com/pettracker/pet/pkg/expense"
	"github.com/pettracker/pet/pkg/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pet.db")
	configPath := filepath.Join(dir, "application.yaml")
	content := "store:\n  type: sqlite\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath, dbPath
}

func seed(t *testing.T, dbPath string) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Store.Path = dbPath
	s, closeStore, err := app.OpenStore(cfg)
	require.NoError(t, err)
	defer closeStore()
	deps := app.NewDependencies(s, utils.SystemClock{}, nil)
	_, err = deps.ExpenseService.Create(context.Background(), expense.Input{
		Date: "2024-05-03", Category: "Food & Dining", Amount: decimal.RequireFromString("42.50"),
	})
	require.NoError(t, err)
	_, err = deps.BudgetService.SetOverall(context.Background(), "2024-05", decimal.NewFromInt(100))
	require.NoError(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	// given
	configPath, dbPath := writeConfig(t)

	// when
	out, err := run(t, "migrate", "--config", configPath)

	// then
	require.NoError(t, err)
	assert.Contains(t, out, "Store sqlite is up to date")
	assert.FileExists(t, dbPath)
}

func TestDashboardCommand(t *testing.T) {
	t.Run("should print the month table", func(t *testing.T) {
		// given
		configPath, dbPath := writeConfig(t)
		seed(t, dbPath)

		// when
		out, err := run(t, "dashboard", "--config", configPath, "--month", "2024-05")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Food & Dining")
		assert.Contains(t, out, "42.50")
		assert.Contains(t, out, "100.00")
	})

	t.Run("should say when a month is empty", func(t *testing.T) {
		// given
		configPath, _ := writeConfig(t)

		// when
		out, err := run(t, "dashboard", "--config", configPath, "--month", "2023-01")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "No expenses or budgets recorded")
	})

	t.Run("should reject an invalid month", func(t *testing.T) {
		// given
		configPath, _ := writeConfig(t)

		// when
		_, err := run(t, "dashboard", "--config", configPath, "--month", "05-2024")

		// then
		assert.ErrorIs(t, err, utils.ErrInvalidMonth)
	})
}

func TestReportCommand(t *testing.T) {
	t.Run("should write csv to stdout", func(t *testing.T) {
		// given
		configPath, dbPath := writeConfig(t)
		seed(t, dbPath)

		// when
		out, err := run(t, "report", "--config", configPath, "--month", "2024-05", "--output", "-")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Food & Dining,42.50,100.00\n")
	})

	t.Run("should write a pdf file", func(t *testing.T) {
		// given
		configPath, dbPath := writeConfig(t)
		seed(t, dbPath)
		output := filepath.Join(t.TempDir(), "report.pdf")

		// when
		_, err := run(t, "report", "--config", configPath, "--month", "2024-05", "--format", "pdf", "--output", output)

		// then
		require.NoError(t, err)
		content, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
	})

	t.Run("should reject an unknown format", func(t *testing.T) {
		// given
		configPath, _ := writeConfig(t)

		// when
		_, err := run(t, "report", "--config", configPath, "--format", "xlsx")

		// then
		assert.ErrorContains(t, err, "unknown report format")
	})
}

func TestStoreKeysAreShared(t *testing.T) {
	// given
	configPath, dbPath := writeConfig(t)
	seed(t, dbPath)
	_, err := run(t, "migrate", "--config", configPath)
	require.NoError(t, err)

	// when
	cfg := config.Defaults()
	cfg.Store.Path = dbPath
	s, closeStore, err := app.OpenStore(cfg)
	require.NoError(t, err)
	defer closeStore()
	blob, err := s.Get(context.Background(), store.ExpensesKey)

	// then
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"date":"2024-05-03"`)
}
