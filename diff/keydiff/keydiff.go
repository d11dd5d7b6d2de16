// Package keydiff is the default diff oracle. It reads the distinct key
// tuples of both tables and reports the keys present on only one side.
package keydiff

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/datumconv"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/diff"
	"github.com/cockroachdb/tablediff/rowiterator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const DefaultRowBatchSize = 10000

var keysScanned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tablediff",
	Subsystem: "keydiff",
	Name:      "keys_scanned",
	Help:      "Number of distinct keys scanned, by side.",
}, []string{"side"})

type Opt func(*oracleOpts)

type oracleOpts struct {
	rowBatchSize  int
	rowsPerSecond int
}

func (o oracleOpts) rateLimit() rate.Limit {
	if o.rowsPerSecond == 0 {
		return rate.Inf
	}
	perSecond := float64(o.rowBatchSize) / float64(o.rowsPerSecond)
	return rate.Every(time.Duration(float64(time.Second) * perSecond))
}

func WithRowBatchSize(c int) Opt {
	return func(o *oracleOpts) {
		o.rowBatchSize = c
	}
}

// WithRowsPerSecond caps how many keys are read from each side per second.
// Zero means unlimited.
func WithRowsPerSecond(c int) Opt {
	return func(o *oracleOpts) {
		o.rowsPerSecond = c
	}
}

// Oracle compares the key sets of two tables. Keys are matched on their
// textual rendering, so an integer key on one warehouse matches the same
// value stored as text on another. NULL keys are never reported.
type Oracle struct {
	logger zerolog.Logger
	opts   oracleOpts
}

var _ diff.Oracle = (*Oracle)(nil)

func New(logger zerolog.Logger, inOpts ...Opt) *Oracle {
	opts := oracleOpts{
		rowBatchSize: DefaultRowBatchSize,
	}
	for _, applyOpt := range inOpts {
		applyOpt(&opts)
	}
	return &Oracle{logger: logger, opts: opts}
}

// ComputeDiff scans both tables concurrently. If both tables share a
// connection, the right side is scanned over a clone of it. Entries are
// sorted by sign then key.
func (o *Oracle) ComputeDiff(
	ctx context.Context, left, right dbtable.ComparableTable,
) (diff.EntryIterator, error) {
	if len(left.KeyColumns) != len(right.KeyColumns) {
		return nil, errors.Newf(
			"key column count mismatch: %s has %d, %s has %d",
			left.String(),
			len(left.KeyColumns),
			right.String(),
			len(right.KeyColumns),
		)
	}

	if left.Conn == right.Conn {
		conn, err := right.Conn.Clone(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "error cloning connection for %s", right.String())
		}
		defer func() { _ = conn.Close(ctx) }()
		right.Conn = conn
	}

	var leftKeys, rightKeys map[string]tree.Datums
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leftKeys, err = o.scanKeys(gCtx, diff.SideLeft, left)
		return err
	})
	g.Go(func() error {
		var err error
		rightKeys, err = o.scanKeys(gCtx, diff.SideRight, right)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	minus := onlyIn(leftKeys, rightKeys)
	plus := onlyIn(rightKeys, leftKeys)
	o.logger.Debug().
		Str("left", left.String()).
		Str("right", right.String()).
		Int("left_keys", len(leftKeys)).
		Int("right_keys", len(rightKeys)).
		Int("left_only", len(minus)).
		Int("right_only", len(plus)).
		Msgf("key diff computed")

	entries := make([]diff.Entry, 0, len(minus)+len(plus))
	for _, k := range minus {
		entries = append(entries, diff.Entry{Sign: diff.SignMinus, Key: k})
	}
	for _, k := range plus {
		entries = append(entries, diff.Entry{Sign: diff.SignPlus, Key: k})
	}
	return diff.NewSliceIterator(entries...), nil
}

func (o *Oracle) scanKeys(
	ctx context.Context, side diff.Side, table dbtable.ComparableTable,
) (map[string]tree.Datums, error) {
	it, err := rowiterator.NewScanIterator(
		ctx,
		table,
		o.opts.rowBatchSize,
		rate.NewLimiter(o.opts.rateLimit(), 1),
	)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]tree.Datums)
	for it.HasNext(ctx) {
		k := it.Next(ctx)
		if datumconv.HasNull(k) {
			continue
		}
		keys[datumconv.KeyString(k)] = k
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	keysScanned.WithLabelValues(side.String()).Add(float64(len(keys)))
	return keys, nil
}

func onlyIn(a, b map[string]tree.Datums) []tree.Datums {
	var ret []tree.Datums
	for k, d := range a {
		if _, ok := b[k]; !ok {
			ret = append(ret, d)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return datumconv.CompareDatums(ret[i], ret[j]) < 0
	})
	return ret
}
