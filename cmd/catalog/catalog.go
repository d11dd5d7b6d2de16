package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/catalog"
	"github.com/cockroachdb/tablediff/cmd/internal/cmdutil"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var (
		database string
		schema   string
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the databases, schemas and tables of a profile.",
	}

	list := func(
		use, short, what string,
		fn func(ctx context.Context, conn dbconn.Conn) ([]string, error),
	) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
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
				names, err := fn(ctx, conn)
				if err != nil {
					return err
				}
				return printNames(cmd.OutOrStdout(), what, names)
			},
		}
	}

	cmd.AddCommand(
		list("databases", "List databases.", "databases", catalog.ListDatabases),
		list("schemas", "List schemas holding base tables.", "schemas",
			func(ctx context.Context, conn dbconn.Conn) ([]string, error) {
				names, err := catalog.ListSchemas(ctx, conn, database)
				if err != nil {
					return nil, err
				}
				return cmdutil.NameFilter().FilterSchemas(names)
			}),
		list("tables", "List base tables of a schema.", "tables",
			func(ctx context.Context, conn dbconn.Conn) ([]string, error) {
				names, err := catalog.ListTables(ctx, conn, database, schema)
				if err != nil {
					return nil, err
				}
				return cmdutil.NameFilter().FilterTables(names)
			}),
	)

	cmd.PersistentFlags().StringVar(
		&database,
		"database",
		"",
		"database to list schemas or tables of",
	)
	cmd.PersistentFlags().StringVar(
		&schema,
		"schema",
		"",
		"schema to list tables of",
	)
	cmdutil.RegisterProfileFlags(cmd)
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterNameFilterFlags(cmd)
	return cmd
}

func printNames(w io.Writer, what string, names []string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintf(w, "no %s found\n", what)
		return errors.Wrapf(err, "error writing output")
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return errors.Wrapf(err, "error writing output")
		}
	}
	return nil
}
