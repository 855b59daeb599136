// Package aggregate groups movie records and reduces them into summary
// tables.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// OthersKey labels the row that folds everything outside a top-N cut.
const OthersKey = "Others"

// Table is an ordered summary: one row per group key, one value per column.
type Table struct {
	Name    string
	KeyName string
	Columns []string
	Rows    []Row
}

// Row is one group of a Table. Count is the number of records in the group.
type Row struct {
	Key    string
	Values []movie.Num
	Count  int
}

// Empty reports whether the table has no rows. An empty table is a valid
// result meaning "no data for this view".
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Column returns the index of col, or -1.
func (t Table) Column(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Value returns the cell for key and col.
func (t Table) Value(key, col string) (movie.Num, bool) {
	j := t.Column(col)
	if j < 0 {
		return movie.Missing, false
	}
	for _, r := range t.Rows {
		if r.Key == key {
			return r.Values[j], true
		}
	}
	return movie.Missing, false
}

// Keys lists row keys in order.
func (t Table) Keys() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Key
	}
	return out
}

func (t Table) clone() Table {
	c := t
	c.Columns = append([]string(nil), t.Columns...)
	c.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = Row{Key: r.Key, Count: r.Count, Values: append([]movie.Num(nil), r.Values...)}
	}
	return c
}

// SortBy returns a copy ordered by col descending. Missing values sort last
// and ties keep their current order. Sorting by the key name orders by key;
// sorting by "count" orders by group size.
func (t Table) SortBy(col string) Table {
	c := t.clone()
	if col == t.KeyName {
		return c.SortByKey()
	}
	j := c.Column(col)
	if j < 0 {
		if col == ColCount {
			sort.SliceStable(c.Rows, func(a, b int) bool { return c.Rows[a].Count > c.Rows[b].Count })
		}
		return c
	}
	sort.SliceStable(c.Rows, func(a, b int) bool {
		x, y := c.Rows[a].Values[j], c.Rows[b].Values[j]
		if x.Valid != y.Valid {
			return x.Valid
		}
		return x.Valid && x.Value > y.Value
	})
	return c
}

// SortByKey returns a copy ordered by key ascending; numeric keys such as
// years compare as numbers.
func (t Table) SortByKey() Table {
	c := t.clone()
	sort.SliceStable(c.Rows, func(a, b int) bool { return keyLess(c.Rows[a].Key, c.Rows[b].Key) })
	return c
}

func keyLess(a, b string) bool {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return x < y
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// Head returns a copy with at most n rows. n <= 0 keeps every row.
func (t Table) Head(n int) Table {
	c := t.clone()
	if n > 0 && len(c.Rows) > n {
		c.Rows = c.Rows[:n]
	}
	return c
}

// Named returns a copy renamed to name.
func (t Table) Named(name string) Table {
	c := t.clone()
	c.Name = name
	return c
}
