package inconsistency

import (
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/tablediff/dbtable"
)

type ReportableObject interface{}

type StatusReport struct {
	Info string
}

// LeftOnlyRow is a row present in the left table whose key is absent from
// the right table.
type LeftOnlyRow struct {
	dbtable.Name
	Columns []string
	Values  tree.Datums
}

// RightOnlyRow is a row present in the right table whose key is absent from
// the left table.
type RightOnlyRow struct {
	dbtable.Name
	Columns []string
	Values  tree.Datums
}

// IncompleteSide is reported when rows could not all be fetched for a side.
type IncompleteSide struct {
	dbtable.Name
	Side string
	// Rows is the number of rows fetched before the failure.
	Rows int
	Err  error
}
