package aggregate

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// Key extracts a grouping key. Of returns false when the record has no key
// and must be left out of the grouping.
type Key struct {
	Name string
	Of   func(movie.Record) (string, bool)
}

// Field extracts a nullable number.
type Field struct {
	Name string
	Of   func(movie.Record) movie.Num
}

func textKey(name string, get func(movie.Record) string) Key {
	return Key{Name: name, Of: func(r movie.Record) (string, bool) {
		v := strings.TrimSpace(get(r))
		if v == "" {
			return movie.Unknown, true
		}
		return v, true
	}}
}

// Grouping keys.
var (
	ByYear = Key{Name: "release_year", Of: func(r movie.Record) (string, bool) {
		if !r.ReleaseYear.Valid {
			return "", false
		}
		return strconv.Itoa(r.ReleaseYear.Value), true
	}}
	ByFirstGenre  = Key{Name: "first_genre", Of: func(r movie.Record) (string, bool) { return r.FirstGenre(), true }}
	ByCountry     = textKey("country", func(r movie.Record) string { return r.Country })
	ByDirector    = textKey("director", func(r movie.Record) string { return r.Director })
	ByStar        = textKey("star", func(r movie.Record) string { return r.Star })
	ByRating      = textKey("rating", func(r movie.Record) string { return r.Rating })
	ByRatingGroup = textKey("rating_group", func(r movie.Record) string { return r.RatingGroup })
	ByLanguage    = textKey("original_language", func(r movie.Record) string { return r.Language })
)

// Numeric fields.
var (
	Budget  = Field{Name: "budget", Of: func(r movie.Record) movie.Num { return r.Budget }}
	Revenue = Field{Name: "revenue", Of: func(r movie.Record) movie.Num { return r.Revenue }}
	Runtime = Field{Name: "runtime", Of: func(r movie.Record) movie.Num { return r.Runtime }}
	Votes   = Field{Name: "votes", Of: func(r movie.Record) movie.Num { return r.Votes }}
	Score   = Field{Name: "score", Of: func(r movie.Record) movie.Num { return r.Score }}
	Profit  = Field{Name: "profit", Of: func(r movie.Record) movie.Num { return r.Profit }}
	// Records is present for every record; counting it gives group size.
	Records = Field{Name: "records", Of: func(movie.Record) movie.Num { return movie.Some(1) }}
)

// NumericFields are the fields correlated by default.
var NumericFields = []Field{Budget, Revenue, Runtime, Votes, Score, Profit}
