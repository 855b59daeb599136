package aggregate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// Matrix is a symmetric Pearson correlation matrix.
type Matrix struct {
	Fields []string
	Values [][]float64 // row-major, Values[i][j]
	// N holds the number of records where both fields are present.
	N [][]int
}

// Get returns r for fields a and b.
func (m Matrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

func (m Matrix) index(name string) int {
	for i, f := range m.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Empty reports whether no pair had enough data.
func (m Matrix) Empty() bool {
	for i := range m.N {
		for j := range m.N[i] {
			if i != j && m.N[i][j] >= 2 {
				return false
			}
		}
	}
	return true
}

// Correlation computes pairwise Pearson r over the records where both fields
// are present. Pairs with fewer than two observations or zero variance report
// 0, and so does the diagonal of such a field; every other diagonal cell is 1.
func Correlation(records []movie.Record, fields ...Field) Matrix {
	n := len(fields)
	m := Matrix{Fields: make([]string, n), Values: make([][]float64, n), N: make([][]int, n)}
	for i, f := range fields {
		m.Fields[i] = f.Name
		m.Values[i] = make([]float64, n)
		m.N[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		var own []float64
		for _, r := range records {
			if v := fields[i].Of(r); v.Valid {
				own = append(own, v.Value)
			}
		}
		m.N[i][i] = len(own)
		if len(own) >= 2 && stat.Variance(own, nil) > 0 {
			m.Values[i][i] = 1
		}
		for j := 0; j < i; j++ {
			var xs, ys []float64
			for _, r := range records {
				x, y := fields[i].Of(r), fields[j].Of(r)
				if x.Valid && y.Valid {
					xs = append(xs, x.Value)
					ys = append(ys, y.Value)
				}
			}
			v := 0.0
			if len(xs) >= 2 {
				v = stat.Correlation(xs, ys, nil)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					v = 0
				}
			}
			m.Values[i][j], m.Values[j][i] = v, v
			m.N[i][j], m.N[j][i] = len(xs), len(xs)
		}
	}
	return m
}
