package cmdutil

import (
	"github.com/cockroachdb/tablediff/catalog"
	"github.com/spf13/cobra"
)

var nameFilter = catalog.DefaultFilterConfig()

func RegisterNameFilterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&nameFilter.TableFilter,
		"table-filter",
		nameFilter.TableFilter,
		"POSIX regexp filter for tables to list",
	)
	cmd.PersistentFlags().StringVar(
		&nameFilter.SchemaFilter,
		"schema-filter",
		nameFilter.SchemaFilter,
		"POSIX regexp filter for schemas to list",
	)
}

func NameFilter() catalog.FilterConfig {
	return nameFilter
}
