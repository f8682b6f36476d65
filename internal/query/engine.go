package query

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// Apply runs search, schema filter, kind filter and sort over d and returns
// the display rows. d is not modified; the returned slice is always new.
func Apply(d dataset.Dataset, s State) []dataset.Row {
	out := make([]dataset.Row, 0, d.Len())
	term := strings.ToLower(s.Search)
	for _, r := range d.Rows {
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		if !isAll(s.Schema) && r.Text(dataset.FieldSchemaName) != s.Schema {
			continue
		}
		if !matchesKindFilter(d.Kind, r, s) {
			continue
		}
		out = append(out, r)
	}
	if s.Sort.Key != "" {
		sortRows(out, s.Sort)
	}
	return out
}

func matchesSearch(r dataset.Row, term string) bool {
	for _, v := range r {
		if v.IsNull() {
			continue
		}
		if strings.Contains(strings.ToLower(v.String()), term) {
			return true
		}
	}
	return false
}

func matchesKindFilter(kind dataset.Kind, r dataset.Row, s State) bool {
	switch kind {
	case dataset.SchemaChange:
		return matchesPositive(r, dataset.FieldNewColumnsCount, s.HasNewColumns) &&
			matchesPositive(r, dataset.FieldDeletedColumnsCount, s.HasDeletedColumns)
	case dataset.NameMismatch, dataset.DtypeMismatch:
		if isAll(string(s.MismatchRange)) {
			return true
		}
		b, ok := s.MismatchRange.Bucket()
		if !ok {
			// unknown range values do not filter
			return true
		}
		return b.Contains(r.Num(kind.PercentField()))
	}
	return true
}

func matchesPositive(r dataset.Row, field string, f BoolFilter) bool {
	if isAll(string(f)) {
		return true
	}
	return (r.Num(field) > 0) == (f == BoolTrue)
}

// sortRows orders rows by key. Ties keep their prior order.
func sortRows(rows []dataset.Row, s Sort) {
	desc := s.Direction == Desc
	sort.SliceStable(rows, func(i, j int) bool {
		c := Compare(rows[i].Get(s.Key), rows[j].Get(s.Key))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// Compare orders two values: absent reads as 0, two numbers compare
// numerically, anything else compares by string form.
func Compare(a, b dataset.Value) int {
	if a.IsNull() {
		a = dataset.Num(0)
	}
	if b.IsNull() {
		b = dataset.Num(0)
	}
	af, aNum := a.Number()
	bf, bNum := b.Number()
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(a.String(), b.String())
}
