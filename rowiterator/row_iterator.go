package rowiterator

import (
	"context"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/jmoiron/sqlx"
)

type Iterator interface {
	Conn() dbconn.Conn
	HasNext(ctx context.Context) bool
	Error() error
	Next(ctx context.Context) tree.Datums
}

type rows struct {
	*sqlx.Rows
	// decimal marks the exact numeric columns.
	decimal []bool
}

func wrapRows(r *sqlx.Rows) (rows, error) {
	types, err := r.ColumnTypes()
	if err != nil {
		_ = r.Close()
		return rows{}, errors.Wrapf(err, "error reading column types")
	}
	ret := rows{Rows: r, decimal: make([]bool, len(types))}
	for i, typ := range types {
		ret.decimal[i] = datumconv.IsDecimalType(typ.DatabaseTypeName())
	}
	return ret, nil
}

func (r rows) Datums() (tree.Datums, error) {
	vals, err := r.SliceScan()
	if err != nil {
		return nil, err
	}
	ret := make(tree.Datums, len(vals))
	for i, v := range vals {
		if i < len(r.decimal) && r.decimal[i] {
			ret[i] = datumconv.FromDecimalValue(v)
			continue
		}
		ret[i] = datumconv.FromValue(v)
	}
	return ret, nil
}

func (r rows) Close() {
	_ = r.Rows.Close()
}

func quotedKeyColumns(d dbconn.Dialect, cols []tree.Name) []string {
	ret := make([]string, len(cols))
	for i, col := range cols {
		ret[i] = d.QuoteIdent(string(col))
	}
	return ret
}
