package dataset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Load describes one whole-dataset replace.
type Load struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	Source string    `json:"source"`
	Rows   int       `json:"rows"`
	At     time.Time `json:"at"`
}

// Snapshot is a consistent view of every dataset at one instant.
type Snapshot struct {
	Datasets    map[Kind]Dataset
	Loads       map[Kind]Load
	LastUpdated time.Time
}

// Store holds the current dataset of each kind. Datasets are only ever
// swapped whole; readers never see a partially replaced dataset.
type Store struct {
	mu          sync.RWMutex
	sets        map[Kind]Dataset
	loads       map[Kind]Load
	lastUpdated time.Time
	now         func() time.Time
}

// NewStore returns a store with every kind empty.
func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(now func() time.Time) *Store {
	return &Store{
		sets:        make(map[Kind]Dataset),
		loads:       make(map[Kind]Load),
		lastUpdated: now(),
		now:         now,
	}
}

// Replace swaps the dataset of kind for rows and stamps the update time.
// source names where the rows came from (a file path or "upload").
func (s *Store) Replace(kind Kind, rows []Row, source string) (Load, error) {
	if !kind.Valid() {
		return Load{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	d := New(kind, rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.now()
	l := Load{
		ID:     uuid.NewString(),
		Kind:   kind,
		Source: source,
		Rows:   d.Len(),
		At:     at,
	}
	s.sets[kind] = d
	s.loads[kind] = l
	s.lastUpdated = at
	return l, nil
}

// Get returns the current dataset of kind, empty if never loaded.
func (s *Store) Get(kind Kind) Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.sets[kind]; ok {
		return d
	}
	return Dataset{Kind: kind}
}

// LastLoad returns the most recent replace of kind.
func (s *Store) LastLoad(kind Kind) (Load, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loads[kind]
	return l, ok
}

// LastUpdated is the time of the most recent replace of any kind, or the
// store's creation time when nothing has been loaded.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Snapshot returns every dataset under a single read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Datasets:    make(map[Kind]Dataset, len(Kinds)),
		Loads:       make(map[Kind]Load, len(s.loads)),
		LastUpdated: s.lastUpdated,
	}
	for _, k := range Kinds {
		if d, ok := s.sets[k]; ok {
			snap.Datasets[k] = d
		} else {
			snap.Datasets[k] = Dataset{Kind: k}
		}
	}
	for k, l := range s.loads {
		snap.Loads[k] = l
	}
	return snap
}
