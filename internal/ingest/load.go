package ingest

import (
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
)

// Source names the file that feeds one dataset kind.
type Source struct {
	Kind dataset.Kind
	Path string
}

// Result reports the outcome of loading one source.
type Result struct {
	Source Source
	Load   dataset.Load
	Err    error
}

// Load reads src and replaces its kind in store. On error the store is
// left untouched.
func Load(store *dataset.Store, src Source, opt Options) (dataset.Load, error) {
	rows, err := ReadFile(src.Path, src.Kind, opt)
	if err != nil {
		return dataset.Load{}, err
	}
	return store.Replace(src.Kind, rows, src.Path)
}

// LoadAll loads every source. A failing source is logged and keeps its
// previous dataset; the others still load.
func LoadAll(store *dataset.Store, sources []Source, opt Options, logger zerolog.Logger) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		l, err := Load(store, src, opt)
		if err != nil {
			logger.Warn().Err(err).Str("kind", string(src.Kind)).Str("path", src.Path).
				Msg("source not loaded, keeping existing data")
		} else {
			logger.Debug().Str("kind", string(src.Kind)).Str("path", src.Path).
				Int("rows", l.Rows).Str("load_id", l.ID).Msg("dataset replaced")
		}
		results = append(results, Result{Source: src, Load: l, Err: err})
	}
	return results
}
