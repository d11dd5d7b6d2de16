package diff

import (
	"fmt"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
)

// Side identifies one of the two tables of a comparison.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// RowSet holds full rows read back from one table.
type RowSet struct {
	Columns []string
	Rows    []tree.Datums
}

func (r RowSet) Len() int {
	return len(r.Rows)
}

// Result is the outcome of a comparison. If LeftErr or RightErr is set, the
// corresponding row set only holds the rows fetched before the failure.
// Fatal is set when no diff could be computed at all; both row sets are then
// empty.
type Result struct {
	LeftOnly  RowSet
	RightOnly RowSet

	LeftErr  error
	RightErr error
	Fatal    error
}

// Complete reports whether the diff was computed and both sides were fully
// fetched.
func (r Result) Complete() bool {
	return r.Fatal == nil && r.LeftErr == nil && r.RightErr == nil
}

// Incomplete reports whether the given side is missing rows.
func (r Result) Incomplete(side Side) bool {
	return r.SideErr(side) != nil
}

func (r Result) SideErr(side Side) error {
	if side == SideLeft {
		return r.LeftErr
	}
	return r.RightErr
}

func (r Result) Rows(side Side) RowSet {
	if side == SideLeft {
		return r.LeftOnly
	}
	return r.RightOnly
}

// Err returns the fatal error, or the combined errors of both sides.
func (r Result) Err() error {
	if r.Fatal != nil {
		return r.Fatal
	}
	var err error
	if r.LeftErr != nil {
		err = errors.Wrap(r.LeftErr, "left side incomplete")
	}
	if r.RightErr != nil {
		err = errors.CombineErrors(err, errors.Wrap(r.RightErr, "right side incomplete"))
	}
	return err
}
