package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintNames(t *testing.T) {
	for _, tc := range []struct {
		desc     string
		names    []string
		expected string
	}{
		{desc: "empty", names: nil, expected: "no tables found\n"},
		{desc: "names", names: []string{"CUSTOMERS", "ORDERS"}, expected: "CUSTOMERS\nORDERS\n"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printNames(&buf, "tables", tc.names))
			require.Equal(t, tc.expected, buf.String())
		})
	}
}
