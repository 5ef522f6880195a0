package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"expense-journal/internal/models"
	"expense-journal/internal/money"
	"expense-journal/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDB creates a database file with one user and a few transactions.
func seedDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	db, err := storage.NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	user, err := db.CreateUser(ctx, "ann@example.com", "Ann", "$2a$10$notarealhash")
	require.NoError(t, err)

	for _, nt := range []models.NewTransaction{
		{Amount: money.FromCents(1050), Description: "Lunch", Category: "Food", Tags: []string{"happy"}},
		{Amount: money.FromCents(2000), Description: "Dinner", Category: "Food", Tags: []string{"happy", "tired"}},
		{Amount: money.FromCents(300), Description: "Bus", Category: "Transport"},
	} {
		_, err := db.CreateTransaction(ctx, user.ID, nt)
		require.NoError(t, err)
	}
	return dbPath
}

func TestRun_PrintsTables(t *testing.T) {
	dbPath := seedDB(t)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	err := run([]string{"-email", "ann@example.com", "-db", dbPath}, stdout, stderr)
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Statistics for ann@example.com")
	assert.Contains(t, output, "Top category: Food")
	assert.Contains(t, output, "CATEGORY")
	assert.Contains(t, output, "30.50")
	assert.Contains(t, output, "Transport")
	assert.Contains(t, output, "TAG")
	assert.Contains(t, output, "tired")
	assert.Contains(t, output, "Dinner")
}

func TestRun_UnknownUser(t *testing.T) {
	dbPath := seedDB(t)

	err := run([]string{"-email", "nobody@example.com", "-db", dbPath}, new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRun_MissingEmailFlag(t *testing.T) {
	stdout := new(bytes.Buffer)

	err := run(nil, stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: email")
	assert.Contains(t, stdout.String(), "Usage:")
}
