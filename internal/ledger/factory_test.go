package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendTypeIsValid(t *testing.T) {
	assert.True(t, MemoryBackend.IsValid())
	assert.True(t, SQLiteBackend.IsValid())
	assert.False(t, BackendType("postgres").IsValid())
	assert.False(t, BackendType("").IsValid())
}

func TestNewInvalidBackend(t *testing.T) {
	_, _, err := New(Config{Type: "postgres"}, nil)
	require.Error(t, err)
}

func TestNewMemoryBackend(t *testing.T) {
	reader, cleanup, err := New(Config{
		Type:    MemoryBackend,
		CSVPath: filepath.Join(t.TempDir(), "missing.csv"),
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, cleanup)

	txs, err := reader.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestNewSQLiteBackend(t *testing.T) {
	reader, cleanup, err := New(Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db"),
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup()

	txs, err := reader.ListTransactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, txs)
}
