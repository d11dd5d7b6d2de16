package dbtable

import (
	"testing"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	for _, tc := range []struct {
		desc          string
		input         string
		expected      Name
		expectedError string
	}{
		{
			desc:     "plain",
			input:    "ANALYTICS.PUBLIC.ORDERS",
			expected: Name{Database: "ANALYTICS", Schema: "PUBLIC", Table: "ORDERS"},
		},
		{
			desc:     "quoted part with dot",
			input:    `db."my.schema".t`,
			expected: Name{Database: "db", Schema: "my.schema", Table: "t"},
		},
		{
			desc:     "escaped quote",
			input:    `db.s."a""b"`,
			expected: Name{Database: "db", Schema: "s", Table: `a"b`},
		},
		{
			desc:          "too few parts",
			input:         "db.t",
			expectedError: `expected database.schema.table, got "db.t"`,
		},
		{
			desc:          "empty schema",
			input:         "db..t",
			expectedError: "schema must not be empty",
		},
		{
			desc:          "unterminated quote",
			input:         `db."s.t`,
			expectedError: `unterminated quote in "db.\"s.t"`,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			n, err := ParseName(tc.input)
			if tc.expectedError != "" {
				require.EqualError(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, n)
		})
	}
}

func TestResolve(t *testing.T) {
	conn := dbconn.NewSQLConn("left", &sqlx.DB{}, dbconn.SnowflakeDialect{})
	for _, tc := range []struct {
		desc          string
		conn          dbconn.Conn
		path          [3]string
		keys          []string
		expectedKeys  []tree.Name
		expectedError string
	}{
		{
			desc:         "single key",
			conn:         conn,
			path:         [3]string{"DB", "PUBLIC", "ORDERS"},
			keys:         []string{"ID"},
			expectedKeys: []tree.Name{"ID"},
		},
		{
			desc:         "composite key is trimmed",
			conn:         conn,
			path:         [3]string{"DB", "PUBLIC", "ORDERS"},
			keys:         []string{" ORDER_ID", "LINE "},
			expectedKeys: []tree.Name{"ORDER_ID", "LINE"},
		},
		{
			desc:          "missing table",
			conn:          conn,
			path:          [3]string{"DB", "PUBLIC", ""},
			keys:          []string{"ID"},
			expectedError: "invalid table path DB.PUBLIC.: table must not be empty",
		},
		{
			desc:          "missing database",
			conn:          conn,
			path:          [3]string{"", "PUBLIC", "T"},
			keys:          []string{"ID"},
			expectedError: "invalid table path .PUBLIC.T: database must not be empty",
		},
		{
			desc:          "no key",
			conn:          conn,
			path:          [3]string{"DB", "PUBLIC", "ORDERS"},
			expectedError: "a key column is required for DB.PUBLIC.ORDERS",
		},
		{
			desc:          "blank key",
			conn:          conn,
			path:          [3]string{"DB", "PUBLIC", "ORDERS"},
			keys:          []string{"  "},
			expectedError: "key column names must not be empty for DB.PUBLIC.ORDERS",
		},
		{
			desc:          "no connection",
			path:          [3]string{"DB", "PUBLIC", "ORDERS"},
			keys:          []string{"ID"},
			expectedError: "connection must be set",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			tbl, err := Resolve(tc.conn, tc.path[0], tc.path[1], tc.path[2], tc.keys...)
			if tc.expectedError != "" {
				require.ErrorContains(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedKeys, tbl.KeyColumns)
			require.Equal(t, `"DB"."PUBLIC"."ORDERS"`, tbl.QualifiedName())
		})
	}
}
