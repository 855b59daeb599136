package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

func money(year int, budget, revenue float64) movie.Record {
	return movie.Record{
		ReleaseYear: movie.SomeInt(year),
		Budget:      movie.Some(budget),
		Revenue:     movie.Some(revenue),
	}.Derive()
}

func genre(g string, revenue movie.Num, votes movie.Num) movie.Record {
	return movie.Record{Genres: movie.SplitGenres(g), Revenue: revenue, Votes: votes}.Derive()
}

func TestMeanProfitByYear(t *testing.T) {
	in := []movie.Record{money(2000, 100, 300), money(2000, 0, 50), money(2001, 200, 150)}
	kept := filter.Apply(in, filter.BudgetPositive(), filter.RevenuePositive())
	tbl := GroupBy(kept, ByYear, MeanOf(Profit))

	assert.Equal(t, []string{"2000", "2001"}, tbl.Keys())
	v, ok := tbl.Value("2000", "profit")
	require.True(t, ok)
	assert.Equal(t, movie.Some(200), v)
	v, _ = tbl.Value("2001", "profit")
	assert.Equal(t, movie.Some(-50), v)
}

func TestGroupBy_FirstGenreAndNullHandling(t *testing.T) {
	in := []movie.Record{
		genre("Action, Drama", movie.Some(100), movie.Some(10)),
		genre("Drama", movie.Missing, movie.Some(30)),
		genre("Action", movie.Some(300), movie.Missing),
		genre("", movie.Some(5), movie.Some(1)),
	}
	tbl := GroupBy(in, ByFirstGenre, MeanOf(Revenue), MeanOf(Votes))
	assert.Equal(t, []string{"Action", "Drama", movie.Unknown}, tbl.Keys())

	rev, _ := tbl.Value("Action", "revenue")
	assert.Equal(t, movie.Some(200), rev)
	votes, _ := tbl.Value("Action", "votes")
	assert.Equal(t, movie.Some(10), votes)

	// Drama has no revenue but still counts its votes
	rev, _ = tbl.Value("Drama", "revenue")
	assert.False(t, rev.Valid)
	votes, _ = tbl.Value("Drama", "votes")
	assert.Equal(t, movie.Some(30), votes)
	assert.Equal(t, 2, tbl.Rows[0].Count)
}

func TestGroupBy_MissingYearExcludedOnlyFromYearGrouping(t *testing.T) {
	noYear := movie.Record{Genres: []string{"Drama"}, Runtime: movie.Some(100)}.Derive()
	in := []movie.Record{noYear, {ReleaseYear: movie.SomeInt(1999), Genres: []string{"Drama"}, Runtime: movie.Some(80)}}

	byYear := GroupBy(in, ByYear, MeanOf(Runtime))
	assert.Equal(t, []string{"1999"}, byYear.Keys())

	byGenre := GroupBy(in, ByFirstGenre, MeanOf(Runtime))
	require.Len(t, byGenre.Rows, 1)
	assert.Equal(t, 2, byGenre.Rows[0].Count)
	assert.Equal(t, movie.Some(90), byGenre.Rows[0].Values[0])
}

func TestReducers(t *testing.T) {
	vals := []float64{3, 1, 2}
	assert.Equal(t, movie.Some(2), Mean(vals))
	assert.Equal(t, movie.Some(6), Sum(vals))
	assert.Equal(t, movie.Some(3), Count(vals))
	assert.Equal(t, movie.Some(1), Min(vals))
	assert.Equal(t, movie.Some(3), Max(vals))

	assert.False(t, Mean(nil).Valid)
	assert.False(t, Sum(nil).Valid)
	assert.False(t, Min(nil).Valid)
	assert.False(t, Max(nil).Valid)
	assert.Equal(t, movie.Some(0), Count(nil))
}

func TestSortByStableWithMissingLast(t *testing.T) {
	tbl := Table{KeyName: "k", Columns: []string{"v"}, Rows: []Row{
		{Key: "a", Values: []movie.Num{movie.Some(1)}},
		{Key: "b", Values: []movie.Num{movie.Missing}},
		{Key: "c", Values: []movie.Num{movie.Some(5)}},
		{Key: "d", Values: []movie.Num{movie.Some(1)}},
	}}
	sorted := tbl.SortBy("v")
	assert.Equal(t, []string{"c", "a", "d", "b"}, sorted.Keys())
	// original untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, tbl.Keys())
	assert.Equal(t, []string{"c", "a"}, sorted.Head(2).Keys())
	assert.Len(t, sorted.Head(0).Rows, 4)
}

func TestSortByKeyNumeric(t *testing.T) {
	tbl := Table{KeyName: "release_year", Rows: []Row{{Key: "2001"}, {Key: "999"}, {Key: "1999"}}}
	assert.Equal(t, []string{"999", "1999", "2001"}, tbl.SortBy("release_year").Keys())
}

func TestTopNAndValueCounts(t *testing.T) {
	in := []movie.Record{
		{Country: "US"}, {Country: "UK"}, {Country: "US"}, {Country: "FR"}, {Country: "UK"}, {Country: "US"}, {},
	}
	vc := ValueCounts(in, ByCountry)
	assert.Equal(t, []string{"US", "UK", "FR", movie.Unknown}, vc.Keys())
	n, _ := vc.Value("US", ColCount)
	assert.Equal(t, movie.Some(3), n)

	top := TopN(in, ByCountry, 2, CountRecords)
	assert.Equal(t, []string{"US", "UK"}, top.Keys())
}

func TestTopNPlusOthers_SumPreserved(t *testing.T) {
	var in []movie.Record
	revenues := map[string][]float64{
		"Action":    {500, 300},
		"Drama":     {100},
		"Comedy":    {250, 50},
		"Horror":    {40},
		"Animation": {90, 10},
	}
	for _, g := range []string{"Action", "Drama", "Comedy", "Horror", "Animation"} {
		for _, r := range revenues[g] {
			in = append(in, genre(g, movie.Some(r), movie.Some(1)))
		}
	}
	full := GroupBy(in, ByFirstGenre, SumOf(Revenue), SumOf(Votes))
	got := TopNPlusOthers(full, "revenue", 2, OthersSum)

	require.Len(t, got.Rows, 3)
	assert.Equal(t, []string{"Action", "Comedy", OthersKey}, got.Keys())
	for j := range full.Columns {
		var want, sum float64
		for _, r := range full.Rows {
			want += r.Values[j].Value
		}
		for _, r := range got.Rows {
			sum += r.Values[j].Value
		}
		assert.InDelta(t, want, sum, 1e-9, full.Columns[j])
	}
	assert.Equal(t, 4, got.Rows[2].Count)
}

func TestTopNPlusOthers_MeanAndShortTables(t *testing.T) {
	full := Table{KeyName: "g", Columns: []string{"v"}, Rows: []Row{
		{Key: "a", Values: []movie.Num{movie.Some(10)}, Count: 1},
		{Key: "b", Values: []movie.Num{movie.Some(4)}, Count: 1},
		{Key: "c", Values: []movie.Num{movie.Some(2)}, Count: 1},
	}}
	got := TopNPlusOthers(full, "v", 1, OthersMean)
	v, _ := got.Value(OthersKey, "v")
	assert.Equal(t, movie.Some(3), v)

	// no remainder, no Others row
	assert.Equal(t, []string{"a", "b", "c"}, TopNPlusOthers(full, "v", 5, OthersSum).Keys())
	assert.True(t, TopNPlusOthers(Table{}, "v", 3, OthersSum).Empty())
}

func TestCorrelation(t *testing.T) {
	in := []movie.Record{
		{Budget: movie.Some(1), Revenue: movie.Some(2), Runtime: movie.Some(100)},
		{Budget: movie.Some(2), Revenue: movie.Some(4), Runtime: movie.Some(100)},
		{Budget: movie.Some(3), Revenue: movie.Some(6), Runtime: movie.Some(100)},
		{Budget: movie.Some(4), Revenue: movie.Missing, Runtime: movie.Some(100)},
	}
	m := Correlation(in, Budget, Revenue, Runtime, Votes)

	r, ok := m.Get("budget", "revenue")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
	r2, _ := m.Get("revenue", "budget")
	assert.Equal(t, r, r2)
	assert.Equal(t, 3, m.N[0][1])

	// zero variance and empty pairs report 0
	r, _ = m.Get("budget", "runtime")
	assert.Equal(t, 0.0, r)
	r, _ = m.Get("budget", "votes")
	assert.Equal(t, 0.0, r)

	// the diagonal follows the same rule
	d, _ := m.Get("budget", "budget")
	assert.Equal(t, 1.0, d)
	d, _ = m.Get("runtime", "runtime")
	assert.Equal(t, 0.0, d)
	d, _ = m.Get("votes", "votes")
	assert.Equal(t, 0.0, d)
	assert.Equal(t, 0, m.N[3][3])
	_, ok = m.Get("budget", "nope")
	assert.False(t, ok)
	assert.False(t, m.Empty())
	assert.True(t, Correlation(nil, Budget, Revenue).Empty())
}

func TestGroupByDeterministic(t *testing.T) {
	var in []movie.Record
	for i := 0; i < 50; i++ {
		in = append(in, money(1990+i%7, float64(i+1), float64(2*i+3)))
	}
	a := GroupBy(in, ByYear, MeanOf(Budget), MeanOf(Revenue), CountRecords)
	b := GroupBy(in, ByYear, MeanOf(Budget), MeanOf(Revenue), CountRecords)
	assert.Equal(t, a, b)
}

func TestGroupBy_TextKeysUseUnknown(t *testing.T) {
	in := []movie.Record{
		{Director: "Nolan", Star: "", Language: "en"},
		{Director: "", Star: "Bale", Language: " "},
		{Director: "Nolan ", Star: "Bale", Language: "en"},
	}
	tests := []struct {
		key    Key
		name   string
		keys   []string
		counts []int
	}{
		{ByDirector, "director", []string{"Nolan", movie.Unknown}, []int{2, 1}},
		{ByStar, "star", []string{movie.Unknown, "Bale"}, []int{1, 2}},
		{ByLanguage, "original_language", []string{"en", movie.Unknown}, []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := GroupBy(in, tt.key, CountRecords)
			assert.Equal(t, tt.name, tbl.KeyName)
			assert.Equal(t, tt.keys, tbl.Keys())
			for i, want := range tt.counts {
				assert.Equal(t, want, tbl.Rows[i].Count)
			}
		})
	}
}
