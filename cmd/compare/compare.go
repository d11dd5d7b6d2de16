package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/cmd/internal/cmdutil"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/dbtable"
	"github.com/cockroachdb/tablediff/diff"
	"github.com/cockroachdb/tablediff/diff/keydiff"
	"github.com/cockroachdb/tablediff/export"
	"github.com/cockroachdb/tablediff/inconsistency"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatLog   = "log"
	// FormatBoth prints the table and also logs every row.
	FormatBoth = "both"
)

// Config tunes a single comparison run.
type Config struct {
	RowBatchSize  int
	RowsPerSecond int
	Format        string
	// Store receives the differing rows as csv if set.
	Store export.Store
}

// Run compares left and right and writes the report to out. A result is
// returned even if one side could not be completed, along with an error.
func Run(
	ctx context.Context,
	logger zerolog.Logger,
	out io.Writer,
	left, right dbtable.ComparableTable,
	cfg Config,
) (diff.Result, error) {
	var reporter inconsistency.Reporter
	switch cfg.Format {
	case FormatTable, "":
		reporter = inconsistency.NewTableReporter(out)
	case FormatLog:
		reporter = inconsistency.LogReporter{Logger: logger}
	case FormatBoth:
		reporter = inconsistency.CombinedReporter{Reporters: []inconsistency.Reporter{
			inconsistency.NewTableReporter(out),
			inconsistency.LogReporter{Logger: logger},
		}}
	default:
		return diff.Result{}, errors.Newf(
			"unknown format %q (expected %s, %s or %s)", cfg.Format, FormatTable, FormatLog, FormatBoth,
		)
	}

	opts := []keydiff.Opt{keydiff.WithRowsPerSecond(cfg.RowsPerSecond)}
	if cfg.RowBatchSize > 0 {
		opts = append(opts, keydiff.WithRowBatchSize(cfg.RowBatchSize))
	}
	oracle := keydiff.New(logger, opts...)
	logger.Info().Str("source", left.String()).Str("destination", right.String()).Msgf("comparison in progress")
	res, err := diff.Compare(ctx, logger, oracle, left, right)
	if res.Fatal != nil {
		return res, errors.Wrapf(err, "error comparing %s and %s", left.SafeString(), right.SafeString())
	}
	inconsistency.ReportResult(reporter, left, right, res)
	reporter.Close()

	if cfg.Store != nil {
		if _, exportErr := export.WriteResult(ctx, logger, cfg.Store, left.Name, right.Name, res); exportErr != nil {
			return res, errors.CombineErrors(err, exportErr)
		}
	}
	if err != nil {
		return res, errors.Wrapf(err, "could not complete comparison of %s and %s", left.SafeString(), right.SafeString())
	}
	return res, nil
}

func Command() *cobra.Command {
	var (
		source        string
		target        string
		sourceKey     []string
		targetKey     []string
		targetProfile string
		cfg           = Config{
			RowBatchSize: keydiff.DefaultRowBatchSize,
			Format:       FormatTable,
		}
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the rows of two tables by key.",
		Long: `Compare lists the rows of the source table whose key is missing from the destination
table, and the rows of the destination table whose key is missing from the source table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			defer cmdutil.RunMetricsServer(logger)()

			sourceName, err := dbtable.ParseName(source)
			if err != nil {
				return errors.Wrapf(err, "invalid --source")
			}
			targetName, err := dbtable.ParseName(target)
			if err != nil {
				return errors.Wrapf(err, "invalid --target")
			}
			if len(targetKey) == 0 {
				targetKey = sourceKey
			}

			ctx := context.Background()
			profiles, err := cmdutil.LoadProfiles()
			if err != nil {
				return err
			}
			sourceConn, err := cmdutil.Connect(ctx, logger, profiles, "")
			if err != nil {
				return err
			}
			defer func() { _ = sourceConn.Close(ctx) }()
			targetConn := sourceConn
			if targetProfile != "" && targetProfile != cmdutil.ProfileName() {
				if targetConn, err = cmdutil.Connect(ctx, logger, profiles, targetProfile); err != nil {
					return err
				}
				defer func() { _ = targetConn.Close(ctx) }()
			}

			left, err := resolve(sourceConn, sourceName, sourceKey)
			if err != nil {
				return err
			}
			right, err := resolve(targetConn, targetName, targetKey)
			if err != nil {
				return err
			}
			if cfg.Store, err = cmdutil.ExportStore(ctx, logger); err != nil {
				return err
			}
			_, err = Run(ctx, logger, cmd.OutOrStdout(), left, right, cfg)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(
		&source,
		"source",
		"",
		"source table as database.schema.table",
	)
	cmd.PersistentFlags().StringVar(
		&target,
		"target",
		"",
		"destination table as database.schema.table",
	)
	cmd.PersistentFlags().StringSliceVar(
		&sourceKey,
		"source-key",
		nil,
		"key column(s) of the source table",
	)
	cmd.PersistentFlags().StringSliceVar(
		&targetKey,
		"target-key",
		nil,
		"key column(s) of the destination table (defaults to --source-key)",
	)
	cmd.PersistentFlags().StringVar(
		&targetProfile,
		"target-profile",
		"",
		"profile to read the destination table with (defaults to --profile)",
	)
	cmd.PersistentFlags().IntVar(
		&cfg.RowBatchSize,
		"row-batch-size",
		cfg.RowBatchSize,
		"number of keys to scan from a table at a time",
	)
	cmd.PersistentFlags().IntVar(
		&cfg.RowsPerSecond,
		"rows-per-second",
		0,
		"if set, maximum number of keys to scan per second per table",
	)
	cmd.PersistentFlags().StringVar(
		&cfg.Format,
		"format",
		cfg.Format,
		fmt.Sprintf("report format (%s, %s or %s)", FormatTable, FormatLog, FormatBoth),
	)
	for _, required := range []string{"source", "target", "source-key"} {
		if err := cmd.MarkPersistentFlagRequired(required); err != nil {
			panic(err)
		}
	}
	cmdutil.RegisterProfileFlags(cmd)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	cmdutil.RegisterExportFlags(cmd)
	return cmd
}

func resolve(conn dbconn.Conn, n dbtable.Name, keys []string) (dbtable.ComparableTable, error) {
	return dbtable.Resolve(conn, string(n.Database), string(n.Schema), string(n.Table), keys...)
}
