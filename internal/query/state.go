package query

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// All disables a categorical filter.
const All = "all"

// BoolFilter selects rows by whether a count column is positive.
type BoolFilter string

const (
	BoolAll   BoolFilter = All
	BoolTrue  BoolFilter = "true"
	BoolFalse BoolFilter = "false"
)

// ParseBoolFilter accepts all|true|false (and yes/no, empty meaning all).
func ParseBoolFilter(s string) (BoolFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", All:
		return BoolAll, nil
	case "true", "yes", "y":
		return BoolTrue, nil
	case "false", "no", "n":
		return BoolFalse, nil
	}
	return "", fmt.Errorf("invalid filter %q (use all, true or false)", s)
}

// RangeFilter selects mismatch rows by percentage bucket.
type RangeFilter string

const (
	RangeAll RangeFilter = All
	Range0   RangeFilter = "0"
	Range25  RangeFilter = "25"
	Range50  RangeFilter = "50"
	Range75  RangeFilter = "75"
	Range100 RangeFilter = "100"
)

var rangeBuckets = map[RangeFilter]dataset.Bucket{
	Range0:   dataset.BucketZero,
	Range25:  dataset.BucketUpTo25,
	Range50:  dataset.BucketUpTo50,
	Range75:  dataset.BucketUpTo75,
	Range100: dataset.BucketAbove75,
}

// ParseRangeFilter accepts all|0|25|50|75|100, with an optional trailing "%".
func ParseRangeFilter(s string) (RangeFilter, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "%")
	if v == "" || v == All {
		return RangeAll, nil
	}
	r := RangeFilter(v)
	if _, ok := rangeBuckets[r]; !ok {
		return "", fmt.Errorf("invalid range %q (use all, 0, 25, 50, 75 or 100)", s)
	}
	return r, nil
}

// Bucket returns the percentage bucket selected by r.
func (r RangeFilter) Bucket() (dataset.Bucket, bool) {
	b, ok := rangeBuckets[r]
	return b, ok
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the sort directive. An empty Key keeps source order.
type Sort struct {
	Key       string    `json:"key,omitempty"`
	Direction Direction `json:"direction"`
}

// Toggle returns the directive after a header click on key: the same key
// flips direction, a different key starts ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && s.Direction != Desc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// State is the search, filter and sort selection for one dataset view.
// It is a value: every With method returns a modified copy.
type State struct {
	Search            string      `json:"search"`
	Schema            string      `json:"schema"`
	HasNewColumns     BoolFilter  `json:"hasNewColumns"`
	HasDeletedColumns BoolFilter  `json:"hasDeletedColumns"`
	MismatchRange     RangeFilter `json:"mismatchRange"`
	Sort              Sort        `json:"sort"`
}

// DefaultState has no search, every filter at "all" and no sort key.
func DefaultState() State {
	return State{
		Schema:            All,
		HasNewColumns:     BoolAll,
		HasDeletedColumns: BoolAll,
		MismatchRange:     RangeAll,
		Sort:              Sort{Direction: Asc},
	}
}

// WithSearch sets the search term; empty disables search.
func (s State) WithSearch(term string) State {
	s.Search = term
	return s
}

// WithSchema keeps only rows of the named schema, or all with All.
func (s State) WithSchema(schema string) State {
	s.Schema = schema
	return s
}

// WithHasNewColumns sets the new-columns filter of schema-change views.
func (s State) WithHasNewColumns(f BoolFilter) State {
	s.HasNewColumns = f
	return s
}

// WithHasDeletedColumns sets the deleted-columns filter of schema-change views.
func (s State) WithHasDeletedColumns(f BoolFilter) State {
	s.HasDeletedColumns = f
	return s
}

// WithMismatchRange sets the percentage bucket filter of mismatch views.
func (s State) WithMismatchRange(r RangeFilter) State {
	s.MismatchRange = r
	return s
}

// WithSortClick applies a header click on key.
func (s State) WithSortClick(key string) State {
	s.Sort = s.Sort.Toggle(key)
	return s
}

// WithSort sets the sort directive directly.
func (s State) WithSort(key string, dir Direction) State {
	if dir != Desc {
		dir = Asc
	}
	s.Sort = Sort{Key: key, Direction: dir}
	return s
}

func isAll(s string) bool { return s == "" || s == All }
