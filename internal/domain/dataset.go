package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind identifies the scalar type held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
)

// Value is a single cell of a Dataset.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
}

// Null is the zero Value.
var Null = Value{}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue returns an integer Value.
func IntValue(n int64) Value { return Value{Kind: KindInt, Int: n} }

// FloatValue returns a float Value.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value as text. Null renders as the empty string so it
// never matches a search for a sentinel like "nan" or "null".
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers and null as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindInt:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case KindFloat:
		return json.Marshal(v.Float)
	default:
		return []byte("null"), nil
	}
}

// Dataset is an in-memory table: ordered columns and rows aligned with them.
type Dataset struct {
	Columns []string
	Rows    [][]Value
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// ColumnIndex returns the position of name, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value of column name in row i, or Null when the column
// does not exist.
func (d *Dataset) Cell(i int, name string) Value {
	idx := d.ColumnIndex(name)
	if idx < 0 || i < 0 || i >= len(d.Rows) || idx >= len(d.Rows[i]) {
		return Null
	}
	return d.Rows[i][idx]
}

// Records converts every row into an order-preserving Record.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = Record{Columns: d.Columns, Values: row}
	}
	return out
}

// Record is a single row keyed by column name. It encodes to a JSON object
// whose keys follow Columns order.
type Record struct {
	Columns []string
	Values  []Value
}

// Get returns the value for column name, or Null.
func (r Record) Get(name string) Value {
	for i, c := range r.Columns {
		if c == name && i < len(r.Values) {
			return r.Values[i]
		}
	}
	return Null
}

// MarshalJSON writes an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := Null
		if i < len(r.Values) {
			v = r.Values[i]
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
