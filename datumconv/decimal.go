package datumconv

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
)

// IsDecimalType reports whether a driver's column type name denotes an exact
// numeric type. Snowflake reports NUMBER columns as FIXED.
func IsDecimalType(typeName string) bool {
	name := strings.ToUpper(strings.TrimSpace(typeName))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	switch name {
	case "DECIMAL", "NUMERIC", "NUMBER", "FIXED":
		return true
	}
	return false
}

// FromDecimalValue converts a value read from an exact numeric column into a
// DDecimal. Values that cannot be read as a decimal fall back to FromValue.
func FromDecimalValue(v any) tree.Datum {
	var s string
	switch v := v.(type) {
	case nil:
		return tree.DNull
	case int64:
		return &tree.DDecimal{Decimal: *apd.New(v, 0)}
	case int32:
		return &tree.DDecimal{Decimal: *apd.New(int64(v), 0)}
	case float64:
		d := &tree.DDecimal{}
		if _, err := d.SetFloat64(v); err != nil {
			return FromValue(v)
		}
		return d
	case string:
		s = v
	case []byte:
		s = string(v)
	case fmt.Stringer:
		s = v.String()
	default:
		return FromValue(v)
	}
	d, err := tree.ParseDDecimal(strings.TrimSpace(s))
	if err != nil {
		return FromValue(v)
	}
	return d
}

// decimalKeyText renders a decimal without trailing zeros, so 1.5 and 1.50
// render the same.
func decimalKeyText(d *tree.DDecimal) string {
	if d.Form != apd.Finite {
		return d.Decimal.String()
	}
	if d.IsZero() {
		return "0"
	}
	var reduced apd.Decimal
	reduced.Reduce(&d.Decimal)
	return reduced.Text('f')
}
