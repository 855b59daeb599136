// Package filter drops records that fail validity checks before
// aggregation.
package filter

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// Predicate is a named validity test. Cost orders evaluation only; it never
// changes which records pass.
type Predicate struct {
	Name string
	Cost int
	Fn   func(movie.Record) bool
}

// Apply returns the records passing every predicate, in input order. The
// input slice is not modified.
func Apply(records []movie.Record, preds ...Predicate) []movie.Record {
	ordered := make([]Predicate, len(preds))
	copy(ordered, preds)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Cost < ordered[j].Cost })

	out := make([]movie.Record, 0, len(records))
next:
	for _, r := range records {
		for _, p := range ordered {
			if !p.Fn(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Count reports how many records each predicate rejects on its own.
func Count(records []movie.Record, preds ...Predicate) map[string]int {
	rejected := make(map[string]int, len(preds))
	for _, p := range preds {
		rejected[p.Name] = 0
		for _, r := range records {
			if !p.Fn(r) {
				rejected[p.Name]++
			}
		}
	}
	return rejected
}

// BudgetPositive keeps records with budget > 0.
func BudgetPositive() Predicate {
	return Predicate{Name: "budget>0", Cost: 1, Fn: func(r movie.Record) bool { return r.Budget.Positive() }}
}

// RevenuePositive keeps records with revenue > 0.
func RevenuePositive() Predicate {
	return Predicate{Name: "revenue>0", Cost: 1, Fn: func(r movie.Record) bool { return r.Revenue.Positive() }}
}

// MinRuntime keeps records whose runtime is present and at least m minutes.
func MinRuntime(m float64) Predicate {
	return Predicate{
		Name: fmt.Sprintf("runtime>=%g", m),
		Cost: 2,
		Fn:   func(r movie.Record) bool { return r.Runtime.Valid && r.Runtime.Value >= m },
	}
}

// HasYear keeps records with a release year.
func HasYear() Predicate {
	return Predicate{Name: "has_year", Cost: 0, Fn: func(r movie.Record) bool { return r.ReleaseYear.Valid }}
}

// YearBetween keeps records released in [lo, hi]. Records without a year
// fail.
func YearBetween(lo, hi int) Predicate {
	return Predicate{
		Name: fmt.Sprintf("year in [%d,%d]", lo, hi),
		Cost: 2,
		Fn: func(r movie.Record) bool {
			return r.ReleaseYear.Valid && r.ReleaseYear.Value >= lo && r.ReleaseYear.Value <= hi
		},
	}
}
