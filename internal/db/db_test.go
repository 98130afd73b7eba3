package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_FilePragmasOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	d, err := OpenDB(filepath.Join(t.TempDir(), "nested", "feather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	// Holding both forces the pool to open a second connection.
	c1, err := d.Conn(ctx)
	require.NoError(t, err)
	defer c1.Close()
	c2, err := d.Conn(ctx)
	require.NoError(t, err)
	defer c2.Close()

	for _, c := range []*sql.Conn{c1, c2} {
		var timeout int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, busyTimeoutMS, timeout)

		var mode string
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", strings.ToLower(mode))
	}
}

func TestOpenDB_MemorySharesOneConnection(t *testing.T) {
	d, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	assert.Equal(t, 1, d.Stats().MaxOpenConnections)
	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&n))
	assert.Zero(t, n)
}
