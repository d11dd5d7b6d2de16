package diff

import (
	"context"
	"time"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/rowiterator"
	"github.com/rs/zerolog"
)

// RowFetcher reads back every row of a table matching a key. Each call must
// issue exactly one query.
type RowFetcher interface {
	FetchRows(ctx context.Context, table dbtable.ComparableTable, key tree.Datums) ([]string, []tree.Datums, error)
}

type pointLookupFetcher struct{}

func (pointLookupFetcher) FetchRows(
	ctx context.Context, table dbtable.ComparableTable, key tree.Datums,
) ([]string, []tree.Datums, error) {
	it := rowiterator.NewPointLookupIterator(table, []tree.Datums{key})
	var rows []tree.Datums
	for it.HasNext(ctx) {
		rows = append(rows, it.Next(ctx))
	}
	if err := it.Error(); err != nil {
		return nil, nil, err
	}
	return it.Columns(), rows, nil
}

// DefaultRowFetcher issues a point lookup against the table's key columns.
var DefaultRowFetcher RowFetcher = pointLookupFetcher{}

type CompareOpt func(*compareOpts)

type compareOpts struct {
	fetcher RowFetcher
}

// WithFetcher replaces the fetcher used to read back rows.
func WithFetcher(f RowFetcher) CompareOpt {
	return func(o *compareOpts) {
		o.fetcher = f
	}
}

// Compare asks the oracle for the keys present on only one side, then reads
// back the full rows for each of them from the side they belong to.
//
// The oracle's entries are consumed fully before any row is fetched. If a
// fetch fails, the remaining keys of that side are skipped but the other side
// is still fetched; the partial result is returned along with the error and
// Result.Complete reports false. Oracle failures and malformed entries return
// a result with no rows and Fatal set.
func Compare(
	ctx context.Context,
	logger zerolog.Logger,
	oracle Oracle,
	left, right dbtable.ComparableTable,
	inOpts ...CompareOpt,
) (Result, error) {
	opts := compareOpts{
		fetcher: DefaultRowFetcher,
	}
	for _, applyOpt := range inOpts {
		applyOpt(&opts)
	}
	start := time.Now()
	defer func() {
		comparisonSeconds.Observe(time.Since(start).Seconds())
	}()

	it, err := oracle.ComputeDiff(ctx, left, right)
	if err != nil {
		err = errors.Wrapf(err, "error computing diff between %s and %s", left.String(), right.String())
		return Result{Fatal: err}, err
	}
	if it == nil {
		err := errors.AssertionFailedf("oracle returned no iterator")
		return Result{Fatal: err}, err
	}
	leftKeys, rightKeys, err := drain(ctx, it, left, right)
	if err != nil {
		return Result{Fatal: err}, err
	}
	logger.Debug().
		Int("left_only_keys", len(leftKeys)).
		Int("right_only_keys", len(rightKeys)).
		Msgf("diff computed")

	var res Result
	res.LeftOnly, res.LeftErr = fetchSide(ctx, opts.fetcher, SideLeft, left, leftKeys)
	res.RightOnly, res.RightErr = fetchSide(ctx, opts.fetcher, SideRight, right, rightKeys)
	for _, side := range []Side{SideLeft, SideRight} {
		if err := res.SideErr(side); err != nil {
			logger.Warn().Err(err).
				Str("side", side.String()).
				Int("rows", res.Rows(side).Len()).
				Msgf("could not complete re-fetch")
		}
	}
	return res, res.Err()
}

func drain(
	ctx context.Context, it EntryIterator, left, right dbtable.ComparableTable,
) (leftKeys []tree.Datums, rightKeys []tree.Datums, _ error) {
	for it.HasNext(ctx) {
		e := it.Next(ctx)
		var table dbtable.ComparableTable
		switch e.Sign {
		case SignMinus:
			table = left
		case SignPlus:
			table = right
		default:
			return nil, nil, malformedEntryf("unknown sign %q for key (%s)", string(e.Sign), datumconv.FormatKey(e.Key))
		}
		if len(e.Key) != len(table.KeyColumns) {
			return nil, nil, malformedEntryf(
				"key (%s) has %d values but %s has %d key columns",
				datumconv.FormatKey(e.Key),
				len(e.Key),
				table.String(),
				len(table.KeyColumns),
			)
		}
		diffEntries.WithLabelValues(string(e.Sign)).Inc()
		if e.Sign == SignMinus {
			leftKeys = append(leftKeys, e.Key)
		} else {
			rightKeys = append(rightKeys, e.Key)
		}
	}
	if err := it.Error(); err != nil {
		return nil, nil, errors.Wrap(err, "error reading diff")
	}
	return leftKeys, rightKeys, nil
}

func fetchSide(
	ctx context.Context,
	fetcher RowFetcher,
	side Side,
	table dbtable.ComparableTable,
	keys []tree.Datums,
) (RowSet, error) {
	var ret RowSet
	for _, key := range keys {
		cols, rows, err := fetcher.FetchRows(ctx, table, key)
		if err != nil {
			refetchQueries.WithLabelValues(side.String(), "error").Inc()
			return ret, err
		}
		refetchQueries.WithLabelValues(side.String(), "ok").Inc()
		if ret.Columns == nil {
			ret.Columns = cols
		}
		ret.Rows = append(ret.Rows, rows...)
	}
	return ret, nil
}
