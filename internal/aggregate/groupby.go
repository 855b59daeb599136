package aggregate

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// ColCount is the column name of record-count metrics.
const ColCount = "count"

// Reducer folds the present values of one group into a single number.
type Reducer func(vals []float64) movie.Num

// Mean of present values; missing when there are none.
func Mean(vals []float64) movie.Num {
	if len(vals) == 0 {
		return movie.Missing
	}
	return movie.Some(stat.Mean(vals, nil))
}

// Sum of present values; missing when there are none.
func Sum(vals []float64) movie.Num {
	if len(vals) == 0 {
		return movie.Missing
	}
	return movie.Some(floats.Sum(vals))
}

// Count of present values.
func Count(vals []float64) movie.Num { return movie.Some(float64(len(vals))) }

// Min of present values; missing when there are none.
func Min(vals []float64) movie.Num {
	if len(vals) == 0 {
		return movie.Missing
	}
	return movie.Some(floats.Min(vals))
}

// Max of present values; missing when there are none.
func Max(vals []float64) movie.Num {
	if len(vals) == 0 {
		return movie.Missing
	}
	return movie.Some(floats.Max(vals))
}

// Metric names a reduction of one field.
type Metric struct {
	Name    string
	Field   Field
	Reducer Reducer
}

// MeanOf, SumOf and CountOf build metrics named after their field.
func MeanOf(f Field) Metric  { return Metric{Name: f.Name, Field: f, Reducer: Mean} }
func SumOf(f Field) Metric   { return Metric{Name: f.Name, Field: f, Reducer: Sum} }
func CountOf(f Field) Metric { return Metric{Name: ColCount, Field: f, Reducer: Count} }

// CountRecords counts every record of a group.
var CountRecords = CountOf(Records)

// GroupBy partitions records by key and applies every metric per group.
// Rows appear in first-appearance order of their key. Records whose key is
// missing are left out; a record missing one metric's field still counts
// toward the others.
func GroupBy(records []movie.Record, key Key, metrics ...Metric) Table {
	t := Table{KeyName: key.Name, Columns: make([]string, len(metrics))}
	for i, m := range metrics {
		t.Columns[i] = m.Name
	}

	type group struct {
		size int
		vals [][]float64
	}
	index := make(map[string]int)
	var order []string
	var groups []*group
	for _, r := range records {
		k, ok := key.Of(r)
		if !ok {
			continue
		}
		gi, seen := index[k]
		if !seen {
			gi = len(groups)
			index[k] = gi
			order = append(order, k)
			groups = append(groups, &group{vals: make([][]float64, len(metrics))})
		}
		g := groups[gi]
		g.size++
		for j, m := range metrics {
			if v := m.Field.Of(r); v.Valid {
				g.vals[j] = append(g.vals[j], v.Value)
			}
		}
	}

	t.Rows = make([]Row, len(groups))
	for i, g := range groups {
		row := Row{Key: order[i], Count: g.size, Values: make([]movie.Num, len(metrics))}
		for j, m := range metrics {
			row.Values[j] = m.Reducer(g.vals[j])
		}
		t.Rows[i] = row
	}
	return t
}

// TopN groups records by key and keeps the n groups with the largest m.
func TopN(records []movie.Record, key Key, n int, m Metric) Table {
	return GroupBy(records, key, m).SortBy(m.Name).Head(n)
}

// ValueCounts counts records per key, largest first.
func ValueCounts(records []movie.Record, key Key) Table {
	return GroupBy(records, key, CountRecords).SortBy(ColCount)
}

// OthersMode selects how rows outside the top N are folded.
type OthersMode string

const (
	OthersSum  OthersMode = "sum"
	OthersMean OthersMode = "mean"
)

// TopNPlusOthers keeps the n largest rows by col and folds the rest into a
// single OthersKey row. In OthersSum mode column totals match t exactly; in
// OthersMean mode Others holds the unweighted mean of the folded rows.
// Without a remainder the result is the sorted top n.
func TopNPlusOthers(t Table, col string, n int, mode OthersMode) Table {
	sorted := t.SortBy(col)
	if n <= 0 || len(sorted.Rows) <= n {
		return sorted
	}
	rest := sorted.Rows[n:]
	out := sorted.Head(n)
	others := Row{Key: OthersKey, Values: make([]movie.Num, len(t.Columns))}
	for j := range t.Columns {
		var vals []float64
		for _, r := range rest {
			if r.Values[j].Valid {
				vals = append(vals, r.Values[j].Value)
			}
		}
		if mode == OthersMean {
			others.Values[j] = Mean(vals)
		} else {
			others.Values[j] = Sum(vals)
		}
	}
	for _, r := range rest {
		others.Count += r.Count
	}
	out.Rows = append(out.Rows, others)
	return out
}
