// Package movie defines the typed movie record the pipeline operates on.
package movie

import (
	"strconv"
	"strings"
	"time"
)

// Unknown is the placeholder for missing categorical values.
const Unknown = "Unknown"

// Record is one normalized movie.
type Record struct {
	Title         string
	OriginalTitle string

	Budget  Num
	Revenue Num
	Runtime Num
	Votes   Num
	Score   Num

	// Genres keeps source order; the head is the "first genre".
	Genres              []string
	Country             string
	Director            string
	Star                string
	Rating              string
	Language            string
	ProductionCompanies string
	ProductionCountries string
	SpokenLanguages     string

	ReleaseDate time.Time // zero when missing
	ReleaseYear NullInt

	Profit      Num
	RatingGroup string
}

// HasReleaseDate reports whether a release date was parsed.
func (r Record) HasReleaseDate() bool { return !r.ReleaseDate.IsZero() }

// FirstGenre returns the head of Genres, or Unknown.
func (r Record) FirstGenre() string {
	if len(r.Genres) == 0 || strings.TrimSpace(r.Genres[0]) == "" {
		return Unknown
	}
	return r.Genres[0]
}

// Derive fills the computed fields: release year (from the date when one is
// present), profit and rating group.
func (r Record) Derive() Record {
	if r.HasReleaseDate() {
		r.ReleaseYear = SomeInt(r.ReleaseDate.Year())
	}
	if r.Budget.Valid && r.Revenue.Valid {
		r.Profit = Some(r.Revenue.Value - r.Budget.Value)
	} else {
		r.Profit = Missing
	}
	r.RatingGroup = RatingGroup(r.Rating)
	return r
}

// Key returns a string identifying the record by every field, used for
// full-record deduplication. Source columns without a Record field do not
// take part.
func (r Record) Key() string {
	var b strings.Builder
	sep := func() { b.WriteByte(0x1f) }
	num := func(n Num) {
		if n.Valid {
			b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
		} else {
			b.WriteByte(0)
		}
		sep()
	}
	for _, s := range []string{r.Title, r.OriginalTitle, r.Country, r.Director, r.Star, r.Rating,
		r.Language, r.ProductionCompanies, r.ProductionCountries, r.SpokenLanguages, r.RatingGroup} {
		b.WriteString(s)
		sep()
	}
	b.WriteString(strings.Join(r.Genres, "\x1e"))
	sep()
	for _, n := range []Num{r.Budget, r.Revenue, r.Runtime, r.Votes, r.Score, r.Profit} {
		num(n)
	}
	if r.HasReleaseDate() {
		b.WriteString(r.ReleaseDate.Format(time.RFC3339))
	}
	sep()
	b.WriteString(r.ReleaseYear.String())
	return b.String()
}

// SplitGenres splits a genre cell ("Action, Adventure") into its parts.
// Empty input yields [Unknown].
func SplitGenres(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{Unknown}
	}
	return out
}
