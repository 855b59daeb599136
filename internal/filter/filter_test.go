package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

func rec(title string, year int, budget, revenue, runtime float64) movie.Record {
	return movie.Record{
		Title:       title,
		ReleaseYear: movie.SomeInt(year),
		Budget:      movie.Some(budget),
		Revenue:     movie.Some(revenue),
		Runtime:     movie.Some(runtime),
	}.Derive()
}

func titles(rs []movie.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Title)
	}
	return out
}

func TestApply_PositiveBudgetAndRevenue(t *testing.T) {
	in := []movie.Record{
		rec("a", 2000, 100, 300, 90),
		rec("b", 2000, 0, 50, 90),
		rec("c", 2001, 200, 150, 90),
	}
	got := Apply(in, BudgetPositive(), RevenuePositive())
	assert.Equal(t, []string{"a", "c"}, titles(got))
}

func TestApply_OrderIndependent(t *testing.T) {
	in := []movie.Record{
		rec("a", 1949, 100, 300, 90),
		rec("b", 2000, 100, 300, 20),
		rec("c", 2001, 200, 150, 90),
		{Title: "d", Budget: movie.Some(1), Revenue: movie.Some(1), Runtime: movie.Some(100)},
	}
	preds := Classic.Predicates()
	want := Apply(in, preds...)
	for i := range preds {
		rotated := append(append([]Predicate{}, preds[i:]...), preds[:i]...)
		assert.Equal(t, titles(want), titles(Apply(in, rotated...)))
	}
	assert.Equal(t, []string{"c"}, titles(want))
}

func TestApply_Monotonic(t *testing.T) {
	in := []movie.Record{
		rec("a", 1990, 100, 300, 90),
		rec("b", 2000, 0, 300, 90),
		rec("c", 2010, 200, 0, 25),
		rec("d", 2024, 200, 400, 50),
		{Title: "e"},
	}
	all := []Predicate{HasYear(), BudgetPositive(), RevenuePositive(), MinRuntime(30), YearBetween(1950, 2023)}
	prev := len(in)
	for i := range all {
		n := len(Apply(in, all[:i+1]...))
		assert.LessOrEqual(t, n, prev, "adding %s grew the result", all[i].Name)
		prev = n
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := []movie.Record{rec("a", 2000, 0, 1, 1), rec("b", 2000, 1, 1, 1)}
	got := Apply(in, BudgetPositive())
	require.Len(t, got, 1)
	got[0].Title = "changed"
	assert.Equal(t, "a", in[0].Title)
	assert.Equal(t, "b", in[1].Title)
}

func TestApply_NoPredicatesKeepsAll(t *testing.T) {
	in := []movie.Record{{Title: "a"}, {Title: "b"}}
	assert.Len(t, Apply(in), 2)
	assert.Empty(t, Apply(nil, HasYear()))
}

func TestHasYear_ExcludesUnparseableDate(t *testing.T) {
	r := movie.Record{Title: "x", Genres: []string{"Drama"}}.Derive()
	assert.Empty(t, Apply([]movie.Record{r}, HasYear()))
}

func TestCount(t *testing.T) {
	in := []movie.Record{rec("a", 2000, 0, 1, 10), rec("b", 2000, 1, 0, 100)}
	got := Count(in, BudgetPositive(), MinRuntime(30))
	assert.Equal(t, map[string]int{"budget>0": 1, "runtime>=30": 1}, got)
}

func TestPresetLookup(t *testing.T) {
	p, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Classic, p)

	p, err = Lookup("Extended")
	require.NoError(t, err)
	assert.Equal(t, 45.0, p.MinRuntime)
	assert.Equal(t, 2025, p.MaxYear)

	_, err = Lookup("strict")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
	assert.Contains(t, err.Error(), "classic, extended, none")
}

func TestPresetPredicates(t *testing.T) {
	assert.Len(t, Classic.Predicates(), 5)
	assert.Empty(t, None.Predicates())
	p := Preset{Name: "x", MinRuntime: 60}
	require.Len(t, p.Predicates(), 1)
	assert.Equal(t, "runtime>=60", p.Predicates()[0].Name)
	assert.Equal(t, "none (no filtering)", None.String())
}

func TestPresetValidate(t *testing.T) {
	for _, p := range Presets() {
		assert.NoError(t, p.Validate(), p.Name)
	}
	bad := Preset{Name: "bad", MinYear: 2020, MaxYear: 1990, MinRuntime: -1}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	var ae *apperrors.Error
	require.True(t, apperrors.As(err, &ae))
	assert.NotEmpty(t, ae.Detail("max_year"))
	assert.NotEmpty(t, ae.Detail("min_runtime"))
}
