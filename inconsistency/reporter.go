package inconsistency

import (
	"fmt"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/diff"
	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(obj ReportableObject)
	Close()
}

type CombinedReporter struct {
	Reporters []Reporter
}

func (c CombinedReporter) Report(obj ReportableObject) {
	for _, r := range c.Reporters {
		r.Report(obj)
	}
}

func (c CombinedReporter) Close() {
	for _, r := range c.Reporters {
		r.Close()
	}
}

// LogReporter reports to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case StatusReport:
		l.Info().Msg(obj.Info)
	case LeftOnlyRow:
		l.Warn().
			Str("table", obj.SafeString()).
			Dict("values", rowDict(obj.Columns, obj.Values)).
			Msgf("row only in source")
	case RightOnlyRow:
		l.Warn().
			Str("table", obj.SafeString()).
			Dict("values", rowDict(obj.Columns, obj.Values)).
			Msgf("row only in destination")
	case IncompleteSide:
		l.Error().
			Err(obj.Err).
			Str("table", obj.SafeString()).
			Str("side", obj.Side).
			Int("rows_fetched", obj.Rows).
			Msgf("could not complete comparison")
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", obj)).
			Msgf("unknown object type")
	}
}

func (l LogReporter) Close() {
}

func rowDict(cols []string, vals tree.Datums) *zerolog.Event {
	d := zerolog.Dict()
	for i, v := range vals {
		col := fmt.Sprintf("column_%d", i+1)
		if i < len(cols) {
			col = cols[i]
		}
		d = d.Str(col, datumconv.Text(v))
	}
	return d
}

// ReportResult reports every row of a comparison result, left side first,
// followed by any incomplete side.
func ReportResult(reporter Reporter, left, right dbtable.ComparableTable, res diff.Result) {
	for _, row := range res.LeftOnly.Rows {
		reporter.Report(LeftOnlyRow{Name: left.Name, Columns: res.LeftOnly.Columns, Values: row})
	}
	for _, row := range res.RightOnly.Rows {
		reporter.Report(RightOnlyRow{Name: right.Name, Columns: res.RightOnly.Columns, Values: row})
	}
	for _, side := range []diff.Side{diff.SideLeft, diff.SideRight} {
		err := res.SideErr(side)
		if err == nil {
			continue
		}
		n := left.Name
		if side == diff.SideRight {
			n = right.Name
		}
		reporter.Report(IncompleteSide{Name: n, Side: side.String(), Rows: res.Rows(side).Len(), Err: err})
	}
	reporter.Report(StatusReport{
		Info: fmt.Sprintf(
			"comparison of %s and %s: %d rows only in source, %d rows only in destination",
			left.SafeString(),
			right.SafeString(),
			res.LeftOnly.Len(),
			res.RightOnly.Len(),
		),
	})
}
