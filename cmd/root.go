package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/tablediff/cmd/catalog"
	"github.com/cockroachdb/tablediff/cmd/compare"
	"github.com/cockroachdb/tablediff/cmd/pick"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tablediff",
	Short: "Find rows missing between two warehouse tables",
	Long: `tablediff compares two tables by key and lists the rows found only in the source table
and the rows found only in the destination table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(catalog.Command())
	rootCmd.AddCommand(compare.Command())
	rootCmd.AddCommand(pick.Command())
}
