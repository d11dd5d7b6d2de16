package inconsistency

import (
	"strings"
	"testing"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/diff"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type collectingReporter struct {
	objs   []ReportableObject
	closed bool
}

func (c *collectingReporter) Report(obj ReportableObject) {
	c.objs = append(c.objs, obj)
}

func (c *collectingReporter) Close() {
	c.closed = true
}

func testTables(t *testing.T) (dbtable.ComparableTable, dbtable.ComparableTable) {
	conn := dbconn.NewSQLConn("c", &sqlx.DB{}, dbconn.SnowflakeDialect{})
	left, err := dbtable.Resolve(conn, "DB", "PUBLIC", "SRC", "ID")
	require.NoError(t, err)
	right, err := dbtable.Resolve(conn, "DB", "PUBLIC", "DST", "ID")
	require.NoError(t, err)
	return left, right
}

func testResult() diff.Result {
	return diff.Result{
		LeftOnly: diff.RowSet{
			Columns: []string{"ID", "NAME"},
			Rows: []tree.Datums{
				{tree.NewDInt(1), tree.NewDString("alice")},
				{tree.NewDInt(3), tree.DNull},
			},
		},
		RightOnly: diff.RowSet{
			Columns: []string{"ID", "NAME"},
			Rows:    []tree.Datums{{tree.NewDInt(2), tree.NewDString("bob")}},
		},
		RightErr: errors.New("connection reset"),
	}
}

func TestReportResult(t *testing.T) {
	left, right := testTables(t)
	a, b := &collectingReporter{}, &collectingReporter{}
	r := CombinedReporter{Reporters: []Reporter{a, b}}
	ReportResult(r, left, right, testResult())
	r.Close()

	require.True(t, a.closed)
	require.True(t, b.closed)
	require.Equal(t, a.objs, b.objs)
	require.Len(t, a.objs, 5)
	require.IsType(t, LeftOnlyRow{}, a.objs[0])
	require.IsType(t, LeftOnlyRow{}, a.objs[1])
	require.IsType(t, RightOnlyRow{}, a.objs[2])
	inc := a.objs[3].(IncompleteSide)
	require.Equal(t, "right", inc.Side)
	require.Equal(t, 1, inc.Rows)
	require.Equal(t, "DB.PUBLIC.DST", inc.SafeString())
	require.Equal(
		t,
		StatusReport{Info: "comparison of DB.PUBLIC.SRC and DB.PUBLIC.DST: 2 rows only in source, 1 rows only in destination"},
		a.objs[4],
	)
}

func TestLogReporter(t *testing.T) {
	left, right := testTables(t)
	var sb strings.Builder
	ReportResult(LogReporter{Logger: zerolog.New(&sb)}, left, right, testResult())
	out := sb.String()
	require.Contains(t, out, `"message":"row only in source"`)
	require.Contains(t, out, `"values":{"ID":"1","NAME":"alice"}`)
	require.Contains(t, out, `"values":{"ID":"3","NAME":"NULL"}`)
	require.Contains(t, out, `"message":"row only in destination"`)
	require.Contains(t, out, `"side":"right"`)
	require.Contains(t, out, `"message":"could not complete comparison"`)
}

func TestTableReporter(t *testing.T) {
	left, right := testTables(t)
	var sb strings.Builder
	r := NewTableReporter(&sb)
	ReportResult(r, left, right, testResult())
	r.Close()
	out := sb.String()
	require.Contains(t, out, LeftOnlyTitle)
	require.Contains(t, out, RightOnlyTitle)
	require.Contains(t, out, "alice")
	require.Contains(t, out, "bob")
	require.Less(t, strings.Index(out, LeftOnlyTitle), strings.Index(out, RightOnlyTitle))
	require.Contains(t, out, "could not complete: right side DB.PUBLIC.DST stopped after 1 rows: connection reset")

	sb.Reset()
	r = NewTableReporter(&sb)
	ReportResult(r, left, right, diff.Result{})
	r.Close()
	require.Contains(t, sb.String(), LeftOnlyTitle+": no rows")
	require.Contains(t, sb.String(), RightOnlyTitle+": no rows")
}
