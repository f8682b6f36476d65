package dataset

import (
	"maps"
	"math"
	"sort"
	"strconv"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	numberValue
	textValue
)

// Value is a single cell: a number, a string, or absent.
// The zero Value is absent.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

// Null is the absent value.
var Null = Value{}

// Num returns a numeric value. NaN and infinities are stored as absent.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	return Value{kind: numberValue, num: f}
}

// Text returns a string value. The empty string is stored as absent.
func Text(s string) Value {
	if s == "" {
		return Null
	}
	return Value{kind: textValue, str: s}
}

func (v Value) IsNull() bool { return v.kind == nullValue }
func (v Value) IsNumber() bool { return v.kind == numberValue }

// Number returns the numeric content and whether the value is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == numberValue
}

// String renders the value the way it appeared in the source; "" when absent.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case textValue:
		return v.str
	}
	return ""
}

// Row maps field names to values. Missing keys read as Null.
type Row map[string]Value

// Get returns the value of name, Null when absent.
func (r Row) Get(name string) Value {
	return r[name]
}

// Num returns the numeric content of name, 0 when absent or not a number.
func (r Row) Num(name string) float64 {
	f, _ := r[name].Number()
	return f
}

// Text returns the string form of name, "" when absent.
func (r Row) Text(name string) string {
	return r[name].String()
}

// Display is Text with "-" substituted for absent values.
func (r Row) Display(name string) string {
	if s := r.Text(name); s != "" {
		return s
	}
	return "-"
}

// Dataset is an ordered, read-only sequence of rows of one kind.
type Dataset struct {
	Kind Kind
	Rows []Row
}

// New copies rows, slice and maps, into a dataset of kind. Later changes
// made by the caller do not affect the dataset.
func New(kind Kind, rows []Row) Dataset {
	cp := make([]Row, len(rows))
	for i, r := range rows {
		cp[i] = maps.Clone(r)
	}
	return Dataset{Kind: kind, Rows: cp}
}

// Len returns the row count.
func (d Dataset) Len() int { return len(d.Rows) }

// Columns lists the declared fields of the kind followed by any extra
// fields found in the rows, sorted by name.
func (d Dataset) Columns() []string {
	declared := d.Kind.Fields()
	cols := make([]string, 0, len(declared))
	seen := make(map[string]bool, len(declared))
	for _, f := range declared {
		cols = append(cols, f.Name)
		seen[f.Name] = true
	}
	var extra []string
	for _, r := range d.Rows {
		for name := range r {
			if !seen[name] {
				seen[name] = true
				extra = append(extra, name)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}
