package dbtable

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/cockroachdb/errors"
)

// Name is a fully qualified catalog path to a table.
type Name struct {
	Database tree.Name
	Schema   tree.Name
	Table    tree.Name
}

func (n Name) SafeString() string {
	return fmt.Sprintf("%s.%s.%s", n.Database, n.Schema, n.Table)
}

func (n Name) String() string {
	return n.SafeString()
}

// ParseName parses a "database.schema.table" path. Parts may be wrapped in
// double quotes to keep dots inside them.
func ParseName(s string) (Name, error) {
	parts, err := splitPath(s)
	if err != nil {
		return Name{}, err
	}
	if len(parts) != 3 {
		return Name{}, errors.Newf("expected database.schema.table, got %q", s)
	}
	n := Name{Database: tree.Name(parts[0]), Schema: tree.Name(parts[1]), Table: tree.Name(parts[2])}
	return n, n.Validate()
}

func splitPath(s string) ([]string, error) {
	var parts []string
	var sb strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(s) && s[i+1] == '"':
			sb.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == '.' && !inQuotes:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, errors.Newf("unterminated quote in %q", s)
	}
	return append(parts, sb.String()), nil
}

// Validate checks every level of the path is set.
func (n Name) Validate() error {
	for _, part := range []struct {
		level string
		val   tree.Name
	}{
		{level: "database", val: n.Database},
		{level: "schema", val: n.Schema},
		{level: "table", val: n.Table},
	} {
		if strings.TrimSpace(string(part.val)) == "" {
			return errors.Newf("%s must not be empty", part.level)
		}
	}
	return nil
}
