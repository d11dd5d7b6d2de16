package rowiterator

import (
	"context"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"golang.org/x/time/rate"
)

type scanIterator struct {
	table        dbtable.ComparableTable
	rowBatchSize int

	waitCh        chan scanIteratorResult
	cache         []tree.Datums
	keyCursor     tree.Datums
	currCacheSize int
	err           error
	scanQuery     keyScanQuery
	rateLimiter   *rate.Limiter
}

type scanIteratorResult struct {
	r   []tree.Datums
	err error
}

// NewScanIterator returns an iterator over the distinct non-NULL key tuples
// of the given table, in key order.
func NewScanIterator(
	ctx context.Context,
	table dbtable.ComparableTable,
	rowBatchSize int,
	rateLimiter *rate.Limiter,
) (Iterator, error) {
	if rowBatchSize <= 0 {
		return nil, errors.Newf("row batch size must be positive, got %d", rowBatchSize)
	}
	if table.Conn == nil {
		return nil, errors.AssertionFailedf("connection must be set for %s", table.String())
	}
	it := &scanIterator{
		table:         table,
		rowBatchSize:  rowBatchSize,
		currCacheSize: rowBatchSize,
		waitCh:        make(chan scanIteratorResult, 1),
		rateLimiter:   rateLimiter,
		scanQuery:     newKeyScanQuery(table, rowBatchSize),
	}
	it.nextPage(ctx)
	return it, nil
}

func (it *scanIterator) Conn() dbconn.Conn {
	return it.table.Conn
}

func (it *scanIterator) HasNext(ctx context.Context) bool {
	for {
		if it.err != nil {
			return false
		}

		if len(it.cache) > 0 {
			return true
		}

		// If the last cache size was less than the row size, we're done
		// reading all the results.
		if it.currCacheSize < it.rowBatchSize {
			return false
		}

		// Wait for more results.
		res := <-it.waitCh
		if res.err != nil {
			it.err = errors.Wrapf(res.err, "error scanning keys of %s", it.table.String())
			return false
		}
		it.cache = res.r
		it.currCacheSize = len(it.cache)

		// Queue the next page immediately.
		if it.currCacheSize == it.rowBatchSize {
			it.nextPage(ctx)
		}
	}
}

// nextPage fetches keys asynchronously.
func (it *scanIterator) nextPage(ctx context.Context) {
	go func() {
		datums, err := func() ([]tree.Datums, error) {
			q, args, err := it.scanQuery.generate(it.keyCursor)
			if err != nil {
				return nil, err
			}
			if it.rateLimiter != nil {
				if err := it.rateLimiter.Wait(ctx); err != nil {
					return nil, err
				}
			}
			newRows, err := it.table.Conn.QueryxContext(ctx, q, args...)
			if err != nil {
				return nil, dbconn.WrapQueryError(it.table.Conn, dbconn.StageKeyScan, err)
			}
			currRows, err := wrapRows(newRows)
			if err != nil {
				return nil, err
			}
			defer currRows.Close()

			datums := make([]tree.Datums, 0, it.rowBatchSize)
			for currRows.Next() {
				d, err := currRows.Datums()
				if err != nil {
					return nil, errors.Wrapf(err, "error getting datums")
				}
				it.keyCursor = d
				datums = append(datums, d)
			}
			if err := currRows.Err(); err != nil {
				return nil, dbconn.WrapQueryError(it.table.Conn, dbconn.StageKeyScan, err)
			}
			return datums, nil
		}()
		it.waitCh <- scanIteratorResult{r: datums, err: err}
	}()
}

func (it *scanIterator) Next(ctx context.Context) tree.Datums {
	if it.HasNext(ctx) {
		ret := it.cache[0]
		it.cache = it.cache[1:]
		return ret
	}
	return nil
}

func (it *scanIterator) Error() error {
	return it.err
}
