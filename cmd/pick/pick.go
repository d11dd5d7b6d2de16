package pick

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/cmd/compare"
	"github.com/cockroachdb/tablediff/cmd/internal/cmdutil"
	"github.com/cockroachdb/tablediff/diff/keydiff"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	cfg := compare.Config{
		RowBatchSize: keydiff.DefaultRowBatchSize,
		Format:       compare.FormatTable,
	}
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Interactively pick two tables of a profile and compare them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			ctx := context.Background()
			profiles, err := cmdutil.LoadProfiles()
			if err != nil {
				return err
			}
			conn, err := cmdutil.Connect(ctx, logger, profiles, "")
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close(ctx) }()
			if cfg.Store, err = cmdutil.ExportStore(ctx, logger); err != nil {
				return err
			}

			m := newModel(ctx, connLister{conn: conn, filter: cmdutil.NameFilter()}, cmdutil.ProfileName())
			final, err := tea.NewProgram(m).Run()
			if err != nil {
				return errors.Wrapf(err, "error running picker")
			}
			src, dst, ok := final.(model).selections()
			if !ok {
				return nil
			}
			left, err := src.Locate(conn)
			if err != nil {
				return err
			}
			right, err := dst.Locate(conn)
			if err != nil {
				return err
			}
			defer cmdutil.RunMetricsServer(logger)()
			_, err = compare.Run(ctx, logger, cmd.OutOrStdout(), left, right, cfg)
			return err
		},
	}

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
		fmt.Sprintf("report format (%s, %s or %s)", compare.FormatTable, compare.FormatLog, compare.FormatBoth),
	)
	cmdutil.RegisterProfileFlags(cmd)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	cmdutil.RegisterNameFilterFlags(cmd)
	cmdutil.RegisterExportFlags(cmd)
	return cmd
}
