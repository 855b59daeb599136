package dataset

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// Profile summarizes a dataset column by column.
type Profile struct {
	Rows    int
	Columns []ColumnSummary
}

// ColumnSummary captures the inferred kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Column looks a summary up by name.
func (p Profile) Column(name string) (ColumnSummary, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

type colAcc struct {
	name   string
	nonNil int
	miss   int

	// numeric stats via Welford
	n      int
	mean   float64
	m2     float64
	min    float64
	max    float64
	dtCnt  int
	txtCnt int
	cats   map[string]int
}

func newColAcc(name string) *colAcc {
	return &colAcc{name: name, min: math.Inf(1), max: math.Inf(-1), cats: make(map[string]int)}
}

func (c *colAcc) add(v string, present bool) {
	if !present || v == "" {
		c.miss++
		return
	}
	c.nonNil++
	if x, ok := parseNumeric(v); ok {
		c.addNum(x)
		return
	}
	if _, ok := parseDate(v); ok {
		c.dtCnt++
		return
	}
	c.txtCnt++
	if len(c.cats) <= 10000 && len(v) <= 64 {
		c.cats[v]++
	}
}

func (c *colAcc) addNum(x float64) {
	c.n++
	if x < c.min {
		c.min = x
	}
	if x > c.max {
		c.max = x
	}
	delta := x - c.mean
	c.mean += delta / float64(c.n)
	c.m2 += delta * (x - c.mean)
}

func (c *colAcc) summary() ColumnSummary {
	s := ColumnSummary{Name: c.name, NonNull: c.nonNil, Missing: c.miss, Kind: "unknown"}
	switch {
	case c.n > 0 && c.n >= c.dtCnt && c.n >= c.txtCnt:
		s.Kind = "numeric"
		s.Min, s.Max, s.Mean = c.min, c.max, c.mean
		if c.n > 1 {
			s.Std = math.Sqrt(c.m2 / float64(c.n-1))
		}
	case c.dtCnt > 0 && c.dtCnt >= c.txtCnt:
		s.Kind = "datetime"
	case len(c.cats) > 0:
		s.Kind = "categorical"
		tops := make([]CategoryCount, 0, len(c.cats))
		for k, v := range c.cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		s.Unique = len(tops)
		if len(tops) > 5 {
			tops = tops[:5]
		}
		s.TopValues = tops
	case c.txtCnt > 0:
		s.Kind = "text"
	}
	return s
}

// ProfileFrame profiles the raw string columns of df.
func ProfileFrame(df dataframe.DataFrame) Profile {
	p := Profile{Rows: df.Nrow()}
	for _, name := range df.Names() {
		acc := newColAcc(name)
		col := df.Col(name)
		for i := 0; i < col.Len(); i++ {
			e := col.Elem(i)
			acc.add(e.String(), !e.IsNA())
		}
		p.Columns = append(p.Columns, acc.summary())
	}
	return p
}

// ProfileRecords profiles the typed fields of normalized records.
func ProfileRecords(records []movie.Record) Profile {
	p := Profile{Rows: len(records)}
	nums := []struct {
		name string
		get  func(movie.Record) movie.Num
	}{
		{ColBudget, func(r movie.Record) movie.Num { return r.Budget }},
		{ColRevenue, func(r movie.Record) movie.Num { return r.Revenue }},
		{ColRuntime, func(r movie.Record) movie.Num { return r.Runtime }},
		{ColVotes, func(r movie.Record) movie.Num { return r.Votes }},
		{ColScore, func(r movie.Record) movie.Num { return r.Score }},
		{"profit", func(r movie.Record) movie.Num { return r.Profit }},
	}
	for _, f := range nums {
		acc := newColAcc(f.name)
		for _, r := range records {
			n := f.get(r)
			if !n.Valid {
				acc.miss++
				continue
			}
			acc.nonNil++
			acc.addNum(n.Value)
		}
		p.Columns = append(p.Columns, acc.summary())
	}

	year := newColAcc(ColReleaseYear)
	date := newColAcc(ColReleaseDate)
	genre := newColAcc("first_genre")
	group := newColAcc("rating_group")
	for _, r := range records {
		if r.ReleaseYear.Valid {
			year.nonNil++
			year.addNum(float64(r.ReleaseYear.Value))
		} else {
			year.miss++
		}
		if r.HasReleaseDate() {
			date.nonNil++
			date.dtCnt++
		} else {
			date.miss++
		}
		genre.add(r.FirstGenre(), true)
		group.add(r.RatingGroup, true)
	}
	p.Columns = append(p.Columns, year.summary(), date.summary(), genre.summary(), group.summary())
	return p
}
