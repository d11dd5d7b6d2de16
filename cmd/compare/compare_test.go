package compare

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/export"
	"github.com/cockroachdb/tablediff/inconsistency"
	"github.com/cockroachdb/tablediff/testutils"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTables(t *testing.T) *dbconn.SQLConn {
	ctx := context.Background()
	conn := testutils.NewDuckDBConn(t, "duck")
	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER, amount INTEGER)`,
		`INSERT INTO orders VALUES (1, 10), (2, 20), (3, 30)`,
		`CREATE TABLE orders_copy (order_id INTEGER, amount INTEGER)`,
		`INSERT INTO orders_copy VALUES (2, 20), (4, 40)`,
	} {
		_, err := conn.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return conn
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	conn := setupTables(t)
	left, err := dbtable.Resolve(conn, "memory", "main", "orders", "id")
	require.NoError(t, err)
	right, err := dbtable.Resolve(conn, "memory", "main", "orders_copy", "order_id")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		dir := t.TempDir()
		store, err := export.NewLocalStore(zerolog.Nop(), dir)
		require.NoError(t, err)

		var out bytes.Buffer
		res, err := Run(ctx, zerolog.Nop(), &out, left, right, Config{
			RowBatchSize: 1,
			Format:       FormatTable,
			Store:        store,
		})
		require.NoError(t, err)
		require.True(t, res.Complete())
		require.Equal(t, 2, res.LeftOnly.Len())
		require.Equal(t, 1, res.RightOnly.Len())

		report := out.String()
		require.Contains(t, report, inconsistency.LeftOnlyTitle)
		require.Contains(t, report, inconsistency.RightOnlyTitle)
		require.Contains(t, report, "2 rows only in source, 1 rows only in destination")

		b, err := os.ReadFile(filepath.Join(dir, export.Prefix(left.Name, right.Name), export.RightOnlyFile))
		require.NoError(t, err)
		require.Equal(t, "order_id,amount\n4,40\n", string(b))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Run(ctx, zerolog.Nop(), &bytes.Buffer{}, left, right, Config{Format: "xml"})
		require.EqualError(t, err, `unknown format "xml" (expected table, log or both)`)
	})

	t.Run("both", func(t *testing.T) {
		var out, logs bytes.Buffer
		res, err := Run(ctx, zerolog.New(&logs), &out, left, right, Config{Format: FormatBoth})
		require.NoError(t, err)
		require.True(t, res.Complete())
		require.Contains(t, out.String(), "2 rows only in source, 1 rows only in destination")
		require.Equal(t, 2, strings.Count(logs.String(), `"message":"row only in source"`))
		require.Equal(t, 1, strings.Count(logs.String(), `"message":"row only in destination"`))
	})

	t.Run("missing key column", func(t *testing.T) {
		bad, err := dbtable.Resolve(conn, "memory", "main", "orders_copy", "id")
		require.NoError(t, err)
		var out bytes.Buffer
		_, err = Run(ctx, zerolog.Nop(), &out, left, bad, Config{Format: FormatLog})
		require.Error(t, err)
		require.True(t, dbconn.IsKeyColumnMismatch(err))
		require.Empty(t, out.String())
	})
}
