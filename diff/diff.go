// Package diff compares two tables by key. An Oracle reports which keys are
// present on only one side, and Compare fetches the full rows for those keys
// back from the side they came from.
package diff

import (
	"context"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/tablediff/dbtable"
)

// Sign marks which side of a comparison a key belongs to.
type Sign string

const (
	// SignMinus marks a key present in the left table only.
	SignMinus Sign = "-"
	// SignPlus marks a key present in the right table only.
	SignPlus Sign = "+"
)

// Entry is a single difference reported by an Oracle.
type Entry struct {
	Sign Sign
	Key  tree.Datums
}

// EntryIterator is a single pass over the entries of a diff. Ordering is not
// guaranteed.
type EntryIterator interface {
	HasNext(ctx context.Context) bool
	Next(ctx context.Context) Entry
	Error() error
}

// Oracle computes the keys present in only one of two tables. Each table is
// already scoped to its key columns.
type Oracle interface {
	ComputeDiff(ctx context.Context, left, right dbtable.ComparableTable) (EntryIterator, error)
}

// OracleFunc adapts a function to an Oracle.
type OracleFunc func(ctx context.Context, left, right dbtable.ComparableTable) (EntryIterator, error)

func (f OracleFunc) ComputeDiff(
	ctx context.Context, left, right dbtable.ComparableTable,
) (EntryIterator, error) {
	return f(ctx, left, right)
}

type sliceIterator struct {
	entries []Entry
	err     error
}

// NewSliceIterator returns an iterator over a fixed list of entries.
func NewSliceIterator(entries ...Entry) EntryIterator {
	return &sliceIterator{entries: entries}
}

// NewErrorIterator returns an iterator yielding the given entries, then
// failing with err.
func NewErrorIterator(err error, entries ...Entry) EntryIterator {
	return &sliceIterator{entries: entries, err: err}
}

func (it *sliceIterator) HasNext(ctx context.Context) bool {
	return len(it.entries) > 0
}

func (it *sliceIterator) Next(ctx context.Context) Entry {
	if len(it.entries) == 0 {
		return Entry{}
	}
	ret := it.entries[0]
	it.entries = it.entries[1:]
	return ret
}

func (it *sliceIterator) Error() error {
	if len(it.entries) > 0 {
		return nil
	}
	return it.err
}
