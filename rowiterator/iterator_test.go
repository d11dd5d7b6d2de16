package rowiterator

import (
	"context"
	"testing"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/testutils"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestScanIterator(t *testing.T) {
	ctx := context.Background()
	conn, mock := testutils.NewMockConn(t, "left", dbconn.SnowflakeDialect{})
	table, err := dbtable.Resolve(conn, "DB", "PUBLIC", "ORDERS", "ID")
	require.NoError(t, err)

	base := `SELECT DISTINCT "ID" FROM "DB"."PUBLIC"."ORDERS" WHERE "ID" IS NOT NULL`
	mock.ExpectQuery(base + ` ORDER BY "ID" LIMIT 2`).
		WillReturnRows(testutils.NewRows(mock, "ID").AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectQuery(base + ` AND (("ID" > ?)) ORDER BY "ID" LIMIT 2`).
		WithArgs(int64(2)).
		WillReturnRows(testutils.NewRows(mock, "ID").AddRow(int64(3)))

	it, err := NewScanIterator(ctx, table, 2, rate.NewLimiter(rate.Inf, 1))
	require.NoError(t, err)
	var keys []string
	for it.HasNext(ctx) {
		keys = append(keys, datumconv.KeyString(it.Next(ctx)))
	}
	require.NoError(t, it.Error())
	require.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestScanIteratorError(t *testing.T) {
	ctx := context.Background()
	conn, mock := testutils.NewMockConn(t, "left", dbconn.SnowflakeDialect{})
	table, err := dbtable.Resolve(conn, "DB", "PUBLIC", "ORDERS", "ID")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT DISTINCT "ID" FROM "DB"."PUBLIC"."ORDERS" WHERE "ID" IS NOT NULL ORDER BY "ID" LIMIT 10`).
		WillReturnError(errors.New("session expired"))

	it, err := NewScanIterator(ctx, table, 10, nil)
	require.NoError(t, err)
	require.False(t, it.HasNext(ctx))
	require.Error(t, it.Error())
	var cErr *dbconn.ConnectivityError
	require.True(t, errors.As(it.Error(), &cErr))
	require.Equal(t, dbconn.StageKeyScan, cErr.Stage)
	require.Equal(t, dbconn.ID("left"), cErr.ConnID)
}

func TestPointLookupIterator(t *testing.T) {
	ctx := context.Background()
	conn, mock := testutils.NewMockConn(t, "right", dbconn.PGDialect{})
	table, err := dbtable.Resolve(conn, "shop", "public", "orders", "id")
	require.NoError(t, err)

	q := `SELECT * FROM public.orders WHERE id = $1`
	mock.ExpectQuery(q).WithArgs("k1").
		WillReturnRows(testutils.NewRows(mock, "id", "amount").AddRow("k1", int64(10)).AddRow("k1", int64(11)))
	mock.ExpectQuery(q).WithArgs("k2").
		WillReturnRows(testutils.NewRows(mock, "id", "amount"))
	mock.ExpectQuery(q).WithArgs("k3").
		WillReturnRows(testutils.NewRows(mock, "id", "amount").AddRow("k3", nil))

	it := NewPointLookupIterator(table, []tree.Datums{
		{tree.NewDString("k1")},
		{tree.NewDString("k2")},
		{tree.NewDString("k3")},
	})
	var got []string
	for it.HasNext(ctx) {
		got = append(got, datumconv.FormatKey(it.Next(ctx)))
	}
	require.NoError(t, it.Error())
	require.Equal(t, []string{"k1, 10", "k1, 11", "k3, NULL"}, got)
	require.Equal(t, []string{"id", "amount"}, it.Columns())
	require.Equal(t, 3, it.KeysFetched())
}

func TestPointLookupIteratorMissingColumn(t *testing.T) {
	ctx := context.Background()
	conn, mock := testutils.NewMockConn(t, "right", dbconn.MySQLDialect{})
	table, err := dbtable.Resolve(conn, "shop", "shop", "orders", "order_id")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT * FROM `shop`.`orders` WHERE `order_id` = ?").WithArgs(int64(1)).
		WillReturnError(&mysql.MySQLError{Number: 1054, Message: "Unknown column 'order_id' in 'where clause'"})

	it := NewPointLookupIterator(table, []tree.Datums{{tree.NewDInt(1)}, {tree.NewDInt(2)}})
	require.False(t, it.HasNext(ctx))
	require.True(t, dbconn.IsKeyColumnMismatch(it.Error()))
	require.Equal(t, 0, it.KeysFetched())
}
