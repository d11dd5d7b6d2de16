package inconsistency

import (
	"fmt"
	"io"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LeftOnlyTitle  = "In Source but not in Destination"
	RightOnlyTitle = "In Destination but not in Source"
)

type tableSection struct {
	title   string
	columns []string
	rows    []table.Row
}

// TableReporter buffers rows and renders them as two tables on Close.
type TableReporter struct {
	w          io.Writer
	leftOnly   tableSection
	rightOnly  tableSection
	incomplete []IncompleteSide
	status     []string
}

func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{
		w:         w,
		leftOnly:  tableSection{title: LeftOnlyTitle},
		rightOnly: tableSection{title: RightOnlyTitle},
	}
}

func (r *TableReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case LeftOnlyRow:
		r.leftOnly.add(obj.Columns, rowOf(obj.Values))
	case RightOnlyRow:
		r.rightOnly.add(obj.Columns, rowOf(obj.Values))
	case IncompleteSide:
		r.incomplete = append(r.incomplete, obj)
	case StatusReport:
		r.status = append(r.status, obj.Info)
	}
}

func (s *tableSection) add(cols []string, row table.Row) {
	if s.columns == nil {
		s.columns = cols
	}
	s.rows = append(s.rows, row)
}

func rowOf(vals tree.Datums) table.Row {
	row := make(table.Row, len(vals))
	for i, v := range vals {
		row[i] = datumconv.Text(v)
	}
	return row
}

func (r *TableReporter) Close() {
	for _, s := range []tableSection{r.leftOnly, r.rightOnly} {
		s.render(r.w)
	}
	for _, inc := range r.incomplete {
		_, _ = fmt.Fprintf(
			r.w,
			"could not complete: %s side %s stopped after %d rows: %v\n",
			inc.Side,
			inc.SafeString(),
			inc.Rows,
			inc.Err,
		)
	}
	for _, s := range r.status {
		_, _ = fmt.Fprintln(r.w, s)
	}
}

func (s tableSection) render(w io.Writer) {
	if len(s.rows) == 0 {
		_, _ = fmt.Fprintf(w, "%s: no rows\n", s.title)
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(s.title)
	header := make(table.Row, len(s.columns))
	for i, col := range s.columns {
		header[i] = col
	}
	t.AppendHeader(header)
	t.AppendRows(s.rows)
	t.SetStyle(table.StyleLight)
	t.Render()
}
