package dataset

import (
	"strconv"
	"strings"
)

// Canonical column names.
const (
	ColTitle               = "title"
	ColOriginalTitle       = "original_title"
	ColGenres              = "genres"
	ColReleaseDate         = "release_date"
	ColReleaseYear         = "release_year"
	ColBudget              = "budget"
	ColRevenue             = "revenue"
	ColRuntime             = "runtime"
	ColVotes               = "votes"
	ColScore               = "score"
	ColCountry             = "country"
	ColDirector            = "director"
	ColStar                = "star"
	ColRating              = "rating"
	ColLanguage            = "original_language"
	ColProductionCompanies = "production_companies"
	ColProductionCountries = "production_countries"
	ColSpokenLanguages     = "spoken_languages"
)

// columnAliases maps variant schema headers to canonical names.
var columnAliases = map[string]string{
	"name":         ColTitle,
	"genre":        ColGenres,
	"gross":        ColRevenue,
	"year":         ColReleaseYear,
	"released":     ColReleaseDate,
	"vote_count":   ColVotes,
	"vote_average": ColScore,
	"company":      ColProductionCompanies,
	"language":     ColLanguage,
}

// DefaultDropColumns are never surfaced as record fields.
var DefaultDropColumns = []string{
	"poster_path", "backdrop_path", "homepage", "imdb_id", "overview", "tagline", "keywords",
}

// DefaultFillColumns are string fields whose missing values become "Unknown"
// before typing.
var DefaultFillColumns = []string{
	ColGenres, ColTitle, ColOriginalTitle, ColReleaseDate,
	ColProductionCompanies, ColProductionCountries, ColSpokenLanguages,
}

// DefaultRequiredColumns must be present in every source.
var DefaultRequiredColumns = []string{ColTitle}

// numericColumns are parsed into movie.Num.
var numericColumns = []string{ColBudget, ColRevenue, ColRuntime, ColVotes, ColScore}

// plainName lower-cases and trims a header cell.
func plainName(h string) string {
	n := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.ReplaceAll(n, " ", "_")
}

// canonicalHeader resolves every header cell through columnAliases. An alias
// that would collide with a column already present keeps its plain name.
func canonicalHeader(header []string) []string {
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[plainName(h)] = true
	}
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		n := plainName(h)
		if a, ok := columnAliases[n]; ok && !taken[a] {
			n = a
		}
		if n == "" {
			n = "column_" + strconv.Itoa(i+1)
		}
		for seen[n] {
			n += "_dup"
		}
		seen[n] = true
		out[i] = n
	}
	return out
}
