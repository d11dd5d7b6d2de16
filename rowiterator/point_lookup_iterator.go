package rowiterator

import (
	"context"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
)

// LookupIterator returns the full rows matching a list of keys.
type LookupIterator interface {
	Iterator
	// Columns returns the column names of the rows returned so far.
	Columns() []string
	// KeysFetched returns how many keys have been looked up successfully.
	KeysFetched() int
}

type pointLookupIterator struct {
	table dbtable.ComparableTable

	keys      []tree.Datums
	keyCursor int
	fetched   int

	columns     []string
	cache       []tree.Datums
	cacheCursor int

	err error
}

// NewPointLookupIterator returns an iterator issuing exactly one query per
// key against the table, filtered on the table's key columns. Every row
// matching a key is returned.
func NewPointLookupIterator(table dbtable.ComparableTable, keys []tree.Datums) LookupIterator {
	return &pointLookupIterator{
		table: table,
		keys:  keys,
	}
}

func (it *pointLookupIterator) Conn() dbconn.Conn {
	return it.table.Conn
}

func (it *pointLookupIterator) HasNext(ctx context.Context) bool {
	for {
		if it.err != nil {
			return false
		}
		if it.cacheCursor < len(it.cache) {
			return true
		}
		if it.keyCursor >= len(it.keys) {
			return false
		}

		key := it.keys[it.keyCursor]
		it.keyCursor++
		if err := it.lookup(ctx, key); err != nil {
			it.err = errors.Wrapf(err, "error fetching key (%s) from %s", datumconv.FormatKey(key), it.table.String())
			return false
		}
		it.fetched++
	}
}

func (it *pointLookupIterator) lookup(ctx context.Context, key tree.Datums) error {
	q, args, err := lookupQuery(it.table, key)
	if err != nil {
		return err
	}
	newRows, err := it.table.Conn.QueryxContext(ctx, q, args...)
	if err != nil {
		return dbconn.WrapQueryError(it.table.Conn, dbconn.StageRefetch, err)
	}
	currRows, err := wrapRows(newRows)
	if err != nil {
		return err
	}
	defer currRows.Close()

	if it.columns == nil {
		if it.columns, err = currRows.Columns(); err != nil {
			return dbconn.WrapQueryError(it.table.Conn, dbconn.StageRefetch, err)
		}
	}
	it.cache = it.cache[:0]
	it.cacheCursor = 0
	for currRows.Next() {
		d, err := currRows.Datums()
		if err != nil {
			return errors.Wrapf(err, "error getting datums")
		}
		it.cache = append(it.cache, d)
	}
	if err := currRows.Err(); err != nil {
		return dbconn.WrapQueryError(it.table.Conn, dbconn.StageRefetch, err)
	}
	return nil
}

func (it *pointLookupIterator) Columns() []string {
	return it.columns
}

func (it *pointLookupIterator) KeysFetched() int {
	return it.fetched
}

func (it *pointLookupIterator) Error() error {
	return it.err
}

func (it *pointLookupIterator) Next(ctx context.Context) tree.Datums {
	if it.HasNext(ctx) {
		ret := it.cache[it.cacheCursor]
		it.cacheCursor++
		return ret
	}
	return nil
}
