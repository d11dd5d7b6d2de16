package rowiterator

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbtable"
)

// keyScanQuery pages through the distinct non-NULL key tuples of a table in
// key order.
type keyScanQuery struct {
	base    string
	orderBy string
	limit   string
	keyCols []string
}

func newKeyScanQuery(table dbtable.ComparableTable, rowBatchSize int) keyScanQuery {
	d := table.Conn.Dialect()
	keyCols := quotedKeyColumns(d, table.KeyColumns)
	cols := strings.Join(keyCols, ", ")

	var sb strings.Builder
	sb.WriteString("SELECT DISTINCT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(table.QualifiedName())
	sb.WriteString(" WHERE ")
	for i, col := range keyCols {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(col)
		sb.WriteString(" IS NOT NULL")
	}
	return keyScanQuery{
		base:    sb.String(),
		orderBy: " ORDER BY " + cols,
		limit:   " LIMIT " + strconv.Itoa(rowBatchSize),
		keyCols: keyCols,
	}
}

// generate returns the query for the page following cursor. A nil cursor
// starts from the beginning. Tuple comparison is expanded so the query works
// on warehouses without row value support.
func (q keyScanQuery) generate(cursor tree.Datums) (string, []any, error) {
	if len(cursor) == 0 {
		return q.base + q.orderBy + q.limit, nil, nil
	}
	if len(cursor) != len(q.keyCols) {
		return "", nil, errors.AssertionFailedf(
			"cursor has %d values, expected %d",
			len(cursor),
			len(q.keyCols),
		)
	}
	var sb strings.Builder
	var args []any
	sb.WriteString(q.base)
	sb.WriteString(" AND (")
	for i := range q.keyCols {
		if i > 0 {
			sb.WriteString(" OR ")
		}
		sb.WriteString("(")
		for j := 0; j < i; j++ {
			sb.WriteString(q.keyCols[j])
			sb.WriteString(" = ? AND ")
			args = append(args, datumconv.ToValue(cursor[j]))
		}
		sb.WriteString(q.keyCols[i])
		sb.WriteString(" > ?)")
		args = append(args, datumconv.ToValue(cursor[i]))
	}
	sb.WriteString(")")
	sb.WriteString(q.orderBy)
	sb.WriteString(q.limit)
	return sb.String(), args, nil
}

// lookupQuery selects every row of the table matching a single key tuple.
func lookupQuery(table dbtable.ComparableTable, key tree.Datums) (string, []any, error) {
	if len(key) != len(table.KeyColumns) {
		return "", nil, errors.AssertionFailedf(
			"key has %d values, expected %d for %s",
			len(key),
			len(table.KeyColumns),
			table.String(),
		)
	}
	keyCols := quotedKeyColumns(table.Conn.Dialect(), table.KeyColumns)
	var sb strings.Builder
	var args []any
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table.QualifiedName())
	sb.WriteString(" WHERE ")
	for i, col := range keyCols {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(col)
		if key[i] == tree.DNull {
			sb.WriteString(" IS NULL")
			continue
		}
		sb.WriteString(" = ?")
		args = append(args, datumconv.ToValue(key[i]))
	}
	return sb.String(), args, nil
}
