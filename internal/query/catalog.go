package query

import "github.com/KaramelBytes/dqlens-cli/internal/dataset"

// UniqueSchemas lists the distinct schema names of d in first-seen order,
// skipping rows without one.
func UniqueSchemas(d dataset.Dataset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.Rows {
		name := r.Text(dataset.FieldSchemaName)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
