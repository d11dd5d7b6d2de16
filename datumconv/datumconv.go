// Package datumconv converts between driver values and datums. Key values are
// carried as datums so they can be ordered, rendered and bound back into
// queries regardless of the warehouse they came from.
package datumconv

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
)

// FromValue converts a value scanned by database/sql into a datum.
func FromValue(v any) tree.Datum {
	switch v := v.(type) {
	case nil:
		return tree.DNull
	case int:
		return tree.NewDInt(tree.DInt(v))
	case int8:
		return tree.NewDInt(tree.DInt(v))
	case int16:
		return tree.NewDInt(tree.DInt(v))
	case int32:
		return tree.NewDInt(tree.DInt(v))
	case int64:
		return tree.NewDInt(tree.DInt(v))
	case uint8:
		return tree.NewDInt(tree.DInt(v))
	case uint16:
		return tree.NewDInt(tree.DInt(v))
	case uint32:
		return tree.NewDInt(tree.DInt(v))
	case float32:
		return tree.NewDFloat(tree.DFloat(v))
	case float64:
		return tree.NewDFloat(tree.DFloat(v))
	case bool:
		return tree.MakeDBool(tree.DBool(v))
	case string:
		return tree.NewDString(v)
	case []byte:
		return tree.NewDString(string(v))
	case time.Time:
		d, err := tree.MakeDTimestampTZ(v, time.Microsecond)
		if err != nil {
			return tree.NewDString(v.Format(time.RFC3339Nano))
		}
		return d
	case fmt.Stringer:
		return tree.NewDString(v.String())
	}
	return tree.NewDString(fmt.Sprint(v))
}

// ToValue converts a datum into a value usable as a query argument.
func ToValue(d tree.Datum) any {
	switch d := d.(type) {
	case *tree.DInt:
		return int64(*d)
	case *tree.DFloat:
		return float64(*d)
	case *tree.DBool:
		return bool(*d)
	case *tree.DString:
		return string(*d)
	case *tree.DTimestampTZ:
		return d.Time
	case *tree.DTimestamp:
		return d.Time
	}
	if d == tree.DNull {
		return nil
	}
	return tree.AsStringWithFlags(d, tree.FmtBareStrings)
}

func ToValues(ds tree.Datums) []any {
	ret := make([]any, len(ds))
	for i, d := range ds {
		ret[i] = ToValue(d)
	}
	return ret
}

// Text renders a datum without quoting.
func Text(d tree.Datum) string {
	if d == tree.DNull {
		return "NULL"
	}
	return tree.AsStringWithFlags(d, tree.FmtBareStrings)
}

// KeyString renders a key tuple for use as a map key. Keys of different
// types with the same textual rendering collide, which lets a numeric key
// match the same value stored as text on the other side. Decimals are
// rendered without trailing zeros first.
func KeyString(ds tree.Datums) string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 {
			sb.WriteByte(0)
		}
		if dec, ok := d.(*tree.DDecimal); ok {
			sb.WriteString(decimalKeyText(dec))
			continue
		}
		sb.WriteString(Text(d))
	}
	return sb.String()
}

// FormatKey renders a key tuple for humans.
func FormatKey(ds tree.Datums) string {
	vals := make([]string, len(ds))
	for i, d := range ds {
		vals[i] = Text(d)
	}
	return strings.Join(vals, ", ")
}

// HasNull reports whether any element of the tuple is NULL.
func HasNull(ds tree.Datums) bool {
	for _, d := range ds {
		if d == tree.DNull {
			return true
		}
	}
	return false
}

// Compare orders two datums. NULL sorts first; datums of differing types
// are ordered by their textual rendering.
func Compare(a, b tree.Datum) int {
	switch {
	case a == tree.DNull && b == tree.DNull:
		return 0
	case a == tree.DNull:
		return -1
	case b == tree.DNull:
		return 1
	}
	if a.ResolvedType().Equivalent(b.ResolvedType()) {
		return a.Compare(CompareContext, b)
	}
	return strings.Compare(Text(a), Text(b))
}

// CompareDatums orders two tuples element by element.
func CompareDatums(a, b tree.Datums) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}
