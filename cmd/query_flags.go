package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/query"
	"github.com/KaramelBytes/dqlens-cli/internal/utils"
)

// viewFlags holds the search, filter and sort flags shared by the
// commands that render a query view.
type viewFlags struct {
	search     string
	schema     string
	hasNew     string
	hasDeleted string
	rng        string
	sortKey    string
	desc       bool
	file       string
}

func (v *viewFlags) bind(c *cobra.Command) {
	f := c.Flags()
	f.StringVarP(&v.search, "search", "s", "", "case-insensitive substring matched against every field")
	f.StringVar(&v.schema, "schema", query.All, "exact schema name to keep, or 'all'")
	f.StringVar(&v.hasNew, "has-new", query.All, "schema changes: rows with new columns (all|true|false)")
	f.StringVar(&v.hasDeleted, "has-deleted", query.All, "schema changes: rows with deleted columns (all|true|false)")
	f.StringVar(&v.rng, "range", query.All, "mismatches: percentage bucket (all|0|25|50|75|100)")
	f.StringVar(&v.sortKey, "sort", "", "field to sort by (default keeps file order)")
	f.BoolVar(&v.desc, "desc", false, "sort descending")
	f.StringVarP(&v.file, "file", "f", "", "read this kind from the given file instead of the configured one")
}

func (v viewFlags) state() (query.State, error) {
	hasNew, err := query.ParseBoolFilter(v.hasNew)
	if err != nil {
		return query.State{}, fmt.Errorf("--has-new: %w", err)
	}
	hasDeleted, err := query.ParseBoolFilter(v.hasDeleted)
	if err != nil {
		return query.State{}, fmt.Errorf("--has-deleted: %w", err)
	}
	rng, err := query.ParseRangeFilter(v.rng)
	if err != nil {
		return query.State{}, fmt.Errorf("--range: %w", err)
	}
	schema := v.schema
	if strings.EqualFold(schema, query.All) {
		schema = query.All
	}
	s := query.DefaultState().
		WithSearch(v.search).
		WithSchema(schema).
		WithHasNewColumns(hasNew).
		WithHasDeletedColumns(hasDeleted).
		WithMismatchRange(rng)
	if v.sortKey != "" {
		dir := query.Asc
		if v.desc {
			dir = query.Desc
		}
		s = s.WithSort(v.sortKey, dir)
	}
	return s, nil
}

// resolveView loads the store and runs the query for kindArg.
func resolveView(kindArg string, v viewFlags) (dataset.Dataset, query.State, []dataset.Row, error) {
	kind, err := dataset.ParseKind(kindArg)
	if err != nil {
		return dataset.Dataset{}, query.State{}, nil, err
	}
	st, err := v.state()
	if err != nil {
		return dataset.Dataset{}, query.State{}, nil, err
	}
	store, _, err := loadStore(kind, v.file)
	if err != nil {
		return dataset.Dataset{}, query.State{}, nil, err
	}
	d := store.Get(kind)
	return d, st, query.Apply(d, st), nil
}

// outputFormat resolves --format against the configured default.
func outputFormat(flag string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" && cfg != nil {
		f = strings.ToLower(cfg.OutputFormat)
	}
	switch f {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported format: %s (use markdown or json)", flag)
}

func writeJSON(w io.Writer, v any) error {
	return utils.WriteJSON(w, v)
}
