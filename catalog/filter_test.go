package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	names := []string{"orders", "order_items", "customers", "tmp_orders"}
	for _, tc := range []struct {
		desc          string
		config        FilterConfig
		expected      []string
		expectedError string
	}{
		{
			desc:     "default config doesn't filter anything",
			config:   DefaultFilterConfig(),
			expected: names,
		},
		{
			desc:     "prefix",
			config:   FilterConfig{TableFilter: "^order"},
			expected: []string{"orders", "order_items"},
		},
		{
			desc:     "alternation",
			config:   FilterConfig{TableFilter: "^(customers|tmp_.*)$"},
			expected: []string{"customers", "tmp_orders"},
		},
		{
			desc:          "bad regexp",
			config:        FilterConfig{TableFilter: "("},
			expectedError: `invalid filter "("`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			ret, err := tc.config.FilterTables(names)
			if tc.expectedError != "" {
				require.ErrorContains(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, ret)
		})
	}

	schemas, err := FilterConfig{SchemaFilter: "^pub"}.FilterSchemas([]string{"public", "staging"})
	require.NoError(t, err)
	require.Equal(t, []string{"public"}, schemas)
}
