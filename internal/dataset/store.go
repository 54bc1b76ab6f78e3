package dataset

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Meta describes the loaded dataset: the filter control values the UI needs
// plus load diagnostics.
type Meta struct {
	Regions    []string  `json:"regions"`
	Categories []string  `json:"categories"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
	Rows       int       `json:"rows"`
	Skipped    int       `json:"skipped"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Store holds the loaded sales table. The table itself is immutable; Reload
// swaps in a freshly parsed table atomically so readers always see a
// consistent snapshot.
type Store struct {
	loader *Loader
	logger *slog.Logger
	path   string

	mu    sync.RWMutex
	sales []Sale
	meta  Meta
}

// NewStore creates a store bound to a dataset file
func NewStore(loader *Loader, path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		loader: loader,
		logger: logger.With(slog.String("component", "dataset_store")),
		path:   path,
	}
}

// Load parses the dataset file and replaces the current table
func (s *Store) Load(ctx context.Context) error {
	result, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return err
	}

	meta := buildMeta(result)

	s.mu.Lock()
	s.sales = result.Sales
	s.meta = meta
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset store refreshed",
		slog.Int("rows", meta.Rows),
		slog.Int("regions", len(meta.Regions)),
		slog.Int("categories", len(meta.Categories)))

	return nil
}

// Snapshot returns the current table. The returned slice must be treated as
// read-only; it is shared with concurrent readers.
func (s *Store) Snapshot() []Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sales
}

// Meta returns metadata about the currently loaded table
func (s *Store) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Loaded reports whether a table has been loaded
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales) > 0
}

// Source returns the dataset file path
func (s *Store) Source() string {
	return s.path
}

// buildMeta derives distinct dimension values and date bounds from a load
func buildMeta(result *LoadResult) Meta {
	regionSet := make(map[string]struct{})
	categorySet := make(map[string]struct{})

	meta := Meta{
		Rows:     len(result.Sales),
		Skipped:  result.Skipped,
		Source:   result.Source,
		LoadedAt: time.Now().UTC(),
	}

	for i, sale := range result.Sales {
		regionSet[sale.Region] = struct{}{}
		categorySet[sale.Category] = struct{}{}

		if i == 0 || sale.Date.Before(meta.MinDate) {
			meta.MinDate = sale.Date
		}
		if i == 0 || sale.Date.After(meta.MaxDate) {
			meta.MaxDate = sale.Date
		}
	}

	meta.Regions = sortedKeys(regionSet)
	meta.Categories = sortedKeys(categorySet)

	return meta
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
