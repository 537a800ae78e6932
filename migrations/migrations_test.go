package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/migrations"
)

func TestFS_MigracionesConUpYDown(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		data, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		body := string(data)
		assert.Contains(t, body, "-- +goose Up", name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestFS_TablasDelLibroMayor(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, "00002_stock_ledger.sql")
	require.NoError(t, err)
	body := string(data)
	for _, table := range []string{"inventory_stocks", "stock_histories"} {
		assert.True(t, strings.Contains(body, "CREATE TABLE IF NOT EXISTS "+table), table)
	}
	assert.Contains(t, body, "reserved_quantity <= quantity")
}
