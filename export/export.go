package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/diff"
	"github.com/rs/zerolog"
)

const (
	LeftOnlyFile   = "left_only.csv"
	RightOnlyFile  = "right_only.csv"
	IncompleteFile = "incomplete.txt"
)

// Prefix returns the directory a comparison of left and right is exported to.
func Prefix(left, right dbtable.Name) string {
	return left.SafeString() + "__" + right.SafeString()
}

// WriteResult writes each side of res as a CSV file with a header row. NULLs
// are written as empty fields. If a side is incomplete, the errors are
// written alongside.
func WriteResult(
	ctx context.Context,
	logger zerolog.Logger,
	store Store,
	left, right dbtable.Name,
	res diff.Result,
) ([]Resource, error) {
	prefix := Prefix(left, right)
	var ret []Resource
	for _, f := range []struct {
		name string
		rs   diff.RowSet
	}{
		{name: LeftOnlyFile, rs: res.LeftOnly},
		{name: RightOnlyFile, rs: res.RightOnly},
	} {
		r, err := writeRowSet(ctx, store, path.Join(prefix, f.name), f.rs)
		if err != nil {
			return ret, errors.Wrapf(err, "error exporting %s", f.name)
		}
		logger.Info().Str("url", r.URL()).Int("rows", f.rs.Len()).Msgf("exported rows")
		ret = append(ret, r)
	}
	if !res.Complete() {
		var sb strings.Builder
		for _, side := range []diff.Side{diff.SideLeft, diff.SideRight} {
			if err := res.SideErr(side); err != nil {
				fmt.Fprintf(&sb, "%s: %d rows fetched before failure: %v\n", side, res.Rows(side).Len(), err)
			}
		}
		r, err := store.CreateFromReader(ctx, strings.NewReader(sb.String()), path.Join(prefix, IncompleteFile))
		if err != nil {
			return ret, errors.Wrapf(err, "error exporting %s", IncompleteFile)
		}
		ret = append(ret, r)
	}
	return ret, nil
}

func writeRowSet(ctx context.Context, store Store, key string, rs diff.RowSet) (Resource, error) {
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	go func() {
		w := csv.NewWriter(pw)
		if len(rs.Columns) > 0 {
			if err := w.Write(rs.Columns); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
		record := make([]string, len(rs.Columns))
		for _, row := range rs.Rows {
			record = record[:0]
			for _, d := range row {
				record = append(record, csvValue(d))
			}
			if err := w.Write(record); err != nil {
				_ = pw.CloseWithError(err)
				return
			}
		}
		w.Flush()
		_ = pw.CloseWithError(w.Error())
	}()
	return store.CreateFromReader(ctx, pr, key)
}

func csvValue(d tree.Datum) string {
	if d == tree.DNull {
		return ""
	}
	return tree.AsStringWithFlags(d, tree.FmtBareStrings)
}
