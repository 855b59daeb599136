package movie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRatingGroup(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"G", GroupAllAges},
		{"PG", GroupAllAges},
		{"PG-13", Group13Plus},
		{"pg-13", Group13Plus},
		{" R ", Group18Plus},
		{"NC-17", Group18Plus},
		{"TV-MA", Group17Plus},
		{"Not  Rated", GroupUnrated},
		{"Unrated", GroupUnrated},
		{"", Unknown},
		{"Unknown", Unknown},
		{"XYZ", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, RatingGroup(tt.label))
		})
	}
}

func TestRatingGroupsKeysAreUpperCase(t *testing.T) {
	for k := range RatingGroups {
		assert.Equal(t, RatingGroup(k), RatingGroups[k], "label %q must resolve to itself", k)
	}
}

func TestDeriveProfitOnlyWhenBothPresent(t *testing.T) {
	tests := []struct {
		name    string
		budget  Num
		revenue Num
		want    Num
	}{
		{"both", Some(100), Some(300), Some(200)},
		{"loss", Some(200), Some(150), Some(-50)},
		{"no budget", Missing, Some(300), Missing},
		{"no revenue", Some(100), Missing, Missing},
		{"neither", Missing, Missing, Missing},
		{"zero budget kept", Some(0), Some(50), Some(50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Budget: tt.budget, Revenue: tt.revenue}.Derive()
			assert.Equal(t, tt.want, r.Profit)
		})
	}
}

func TestDeriveYearFromDate(t *testing.T) {
	r := Record{ReleaseDate: time.Date(1999, 3, 31, 0, 0, 0, 0, time.UTC)}.Derive()
	assert.Equal(t, SomeInt(1999), r.ReleaseYear)

	// a year supplied without a date survives
	r = Record{ReleaseYear: SomeInt(1980)}.Derive()
	assert.Equal(t, SomeInt(1980), r.ReleaseYear)

	r = Record{}.Derive()
	assert.False(t, r.ReleaseYear.Valid)
}

func TestFirstGenre(t *testing.T) {
	assert.Equal(t, "Action", Record{Genres: []string{"Action", "Drama"}}.FirstGenre())
	assert.Equal(t, Unknown, Record{}.FirstGenre())
	assert.Equal(t, Unknown, Record{Genres: []string{" "}}.FirstGenre())
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"Action", "Adventure", "Science Fiction"}, SplitGenres("Action, Adventure,Science Fiction"))
	assert.Equal(t, []string{"Drama"}, SplitGenres("Drama"))
	assert.Equal(t, []string{Unknown}, SplitGenres(""))
	assert.Equal(t, []string{Unknown}, SplitGenres(" , "))
}

func TestKeyDistinguishesMissingFromZero(t *testing.T) {
	a := Record{Title: "A", Budget: Some(0)}
	b := Record{Title: "A", Budget: Missing}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), Record{Title: "A", Budget: Some(0)}.Key())
}

func TestNumString(t *testing.T) {
	assert.Equal(t, "", Missing.String())
	assert.Equal(t, "100", Some(100).String())
	assert.Equal(t, "-50", Some(-50).String())
	assert.Equal(t, "7.5", Some(7.5).String())
	assert.True(t, Some(1).Positive())
	assert.False(t, Some(0).Positive())
	assert.False(t, Missing.Positive())
}
