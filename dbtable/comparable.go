package dbtable

import (
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/dbconn"
)

// ComparableTable is a table scoped to the key columns used to correlate rows
// between two sides of a comparison. It is created per comparison and carries
// the connection the table is read from.
type ComparableTable struct {
	Name
	KeyColumns []tree.Name
	Conn       dbconn.Conn
}

// QualifiedName renders the table reference for the connection's dialect.
func (t ComparableTable) QualifiedName() string {
	return t.Conn.Dialect().QualifiedName(string(t.Database), string(t.Schema), string(t.Table))
}

func (t ComparableTable) String() string {
	cols := make([]string, len(t.KeyColumns))
	for i, c := range t.KeyColumns {
		cols[i] = string(c)
	}
	return t.SafeString() + "(" + strings.Join(cols, ",") + ")"
}

// Resolve returns a ComparableTable for the given path. Only the shape of the
// path is validated; a key column missing from the table surfaces once the
// table is queried.
func Resolve(
	conn dbconn.Conn, database, schema, table string, keyColumns ...string,
) (ComparableTable, error) {
	if conn == nil {
		return ComparableTable{}, errors.AssertionFailedf("connection must be set")
	}
	n := Name{Database: tree.Name(database), Schema: tree.Name(schema), Table: tree.Name(table)}
	if err := n.Validate(); err != nil {
		return ComparableTable{}, errors.Wrapf(err, "invalid table path %s", n.SafeString())
	}
	if len(keyColumns) == 0 {
		return ComparableTable{}, errors.Newf("a key column is required for %s", n.SafeString())
	}
	ret := ComparableTable{Name: n, Conn: conn}
	for _, col := range keyColumns {
		col = strings.TrimSpace(col)
		if col == "" {
			return ComparableTable{}, errors.Newf("key column names must not be empty for %s", n.SafeString())
		}
		ret.KeyColumns = append(ret.KeyColumns, tree.Name(col))
	}
	return ret, nil
}
