package analytics

import (
	"time"

	"salesboard/internal/dataset"
)

// Filter is a predicate over date range, region, and category restricting
// which records contribute to aggregates. Zero dates mean unbounded; empty
// region/category lists mean "all".
type Filter struct {
	From       time.Time
	To         time.Time
	Regions    []string
	Categories []string
}

// matcher is a prepared form of Filter for repeated evaluation
type matcher struct {
	from, to   time.Time
	regions    map[string]struct{}
	categories map[string]struct{}
}

func (f Filter) compile() matcher {
	m := matcher{from: f.From, to: f.To}
	if len(f.Regions) > 0 {
		m.regions = make(map[string]struct{}, len(f.Regions))
		for _, r := range f.Regions {
			m.regions[r] = struct{}{}
		}
	}
	if len(f.Categories) > 0 {
		m.categories = make(map[string]struct{}, len(f.Categories))
		for _, c := range f.Categories {
			m.categories[c] = struct{}{}
		}
	}
	return m
}

// matches applies the predicate to a single record. Date bounds are inclusive.
func (m matcher) matches(s dataset.Sale) bool {
	if !m.from.IsZero() && s.Date.Before(m.from) {
		return false
	}
	if !m.to.IsZero() && s.Date.After(m.to) {
		return false
	}
	if m.regions != nil {
		if _, ok := m.regions[s.Region]; !ok {
			return false
		}
	}
	if m.categories != nil {
		if _, ok := m.categories[s.Category]; !ok {
			return false
		}
	}
	return true
}

// FilterRecords returns the records matching the filter, preserving order
func FilterRecords(sales []dataset.Sale, f Filter) []dataset.Sale {
	m := f.compile()
	out := make([]dataset.Sale, 0, len(sales))
	for _, s := range sales {
		if m.matches(s) {
			out = append(out, s)
		}
	}
	return out
}
