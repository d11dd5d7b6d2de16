package rowiterator

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestScanQuery(t *testing.T) {
	datadriven.Walk(t, "testdata/scanquery", func(t *testing.T, path string) {
		var table dbtable.ComparableTable
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "table":
				table = tableFromArgs(t, d)
				return ""
			case "generate":
				q, args, err := newKeyScanQuery(table, 100).generate(parseDatums(t, d.Input))
				require.NoError(t, err)
				return formatQuery(q, args)
			case "lookup":
				q, args, err := lookupQuery(table, parseDatums(t, d.Input))
				require.NoError(t, err)
				return formatQuery(q, args)
			}
			t.Errorf("unknown command %s", d.Cmd)
			return ""
		})
	})
}

func TestLookupQueryArity(t *testing.T) {
	table := makeTable(t, dbconn.SnowflakeDialect{}, "DB", "PUBLIC", "T", "A", "B")
	_, _, err := lookupQuery(table, tree.Datums{tree.NewDInt(1)})
	require.ErrorContains(t, err, "key has 1 values, expected 2")

	_, _, err = newKeyScanQuery(table, 10).generate(tree.Datums{tree.NewDInt(1)})
	require.ErrorContains(t, err, "cursor has 1 values, expected 2")
}

func tableFromArgs(t *testing.T, d *datadriven.TestData) dbtable.ComparableTable {
	var dialect dbconn.Dialect
	var name []string
	var keys []string
	for _, arg := range d.CmdArgs {
		switch arg.Key {
		case "dialect":
			var err error
			dialect, err = dbconn.DialectForDriver(arg.Vals[0])
			require.NoError(t, err)
		case "name":
			name = strings.Split(arg.Vals[0], ".")
		case "keys":
			keys = arg.Vals
		default:
			t.Fatalf("unknown argument %s", arg.Key)
		}
	}
	require.NotNil(t, dialect)
	require.Len(t, name, 3)
	return makeTable(t, dialect, name[0], name[1], name[2], keys...)
}

func makeTable(
	t *testing.T, dialect dbconn.Dialect, db, schema, table string, keys ...string,
) dbtable.ComparableTable {
	conn := dbconn.NewSQLConn("test", &sqlx.DB{}, dialect)
	ret, err := dbtable.Resolve(conn, db, schema, table, keys...)
	require.NoError(t, err)
	return ret
}

func parseDatums(t *testing.T, s string) tree.Datums {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ret tree.Datums
	for _, v := range strings.Split(s, "\n") {
		if v == "NULL" {
			ret = append(ret, tree.DNull)
			continue
		}
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			ret = append(ret, tree.NewDInt(tree.DInt(i)))
			continue
		}
		ret = append(ret, tree.NewDString(v))
	}
	return ret
}

func formatQuery(q string, args []any) string {
	return fmt.Sprintf("%s\nargs: %v\n", q, args)
}
