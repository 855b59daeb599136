package dataset

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gota/gota/series"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/logger"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// NormalizeOptions controls record typing.
type NormalizeOptions struct {
	// Fill lists string columns whose missing values become movie.Unknown.
	// Defaults to DefaultFillColumns.
	Fill   []string
	Logger *slog.Logger
}

// Result is the outcome of Normalize.
type Result struct {
	Records []movie.Record
	// Warnings holds the first row-level problems; WarningCount counts all.
	Warnings          []string
	WarningCount      int
	SkippedRows       int
	DuplicatesRemoved int
	Before            Profile
	After             Profile
}

// Normalize types every row of f into a movie.Record. Missing categorical
// values become movie.Unknown, unparseable or negative numbers become
// missing, unparseable dates become missing, and exact duplicate records are
// dropped keeping the first.
func Normalize(f *Frame, opt NormalizeOptions) (*Result, error) {
	if f == nil {
		return nil, apperrors.SourceUnreadable("", fmt.Errorf("nil frame"))
	}
	log := logger.OrDefault(opt.Logger)
	fill := opt.Fill
	if fill == nil {
		fill = DefaultFillColumns
	}
	fillSet := make(map[string]bool, len(fill))
	for _, c := range fill {
		fillSet[c] = true
	}

	res := &Result{SkippedRows: f.Skipped, Before: ProfileFrame(f.DF)}
	for _, w := range f.Warnings {
		res.warn(log, "%s", w)
	}

	cols := make(map[string]series.Series)
	for _, name := range f.DF.Names() {
		cols[name] = f.DF.Col(name)
	}
	cell := func(name string, i int) (string, bool) {
		s, ok := cols[name]
		if !ok {
			return "", false
		}
		e := s.Elem(i)
		if e.IsNA() {
			return "", false
		}
		v := strings.TrimSpace(e.String())
		return v, v != ""
	}
	text := func(name string, i int) string {
		if v, ok := cell(name, i); ok {
			return v
		}
		return movie.Unknown
	}
	num := func(name string, i int) movie.Num {
		v, ok := cell(name, i)
		if !ok {
			return movie.Missing
		}
		x, ok := parseNumeric(v)
		if !ok {
			res.warn(log, "row %d: %s value %q is not numeric", i+2, name, v)
			return movie.Missing
		}
		if x < 0 {
			res.warn(log, "row %d: negative %s %s treated as missing", i+2, name, v)
			return movie.Missing
		}
		return movie.Some(x)
	}

	_, hasDate := cols[ColReleaseDate]
	_, hasYear := cols[ColReleaseYear]
	seen := make(map[string]bool, f.DF.Nrow())
	for i := 0; i < f.DF.Nrow(); i++ {
		r := movie.Record{
			Title:               text(ColTitle, i),
			OriginalTitle:       text(ColOriginalTitle, i),
			Budget:              num(ColBudget, i),
			Revenue:             num(ColRevenue, i),
			Runtime:             num(ColRuntime, i),
			Votes:               num(ColVotes, i),
			Score:               num(ColScore, i),
			Country:             text(ColCountry, i),
			Director:            text(ColDirector, i),
			Star:                text(ColStar, i),
			Rating:              text(ColRating, i),
			Language:            text(ColLanguage, i),
			ProductionCompanies: text(ColProductionCompanies, i),
			ProductionCountries: text(ColProductionCountries, i),
			SpokenLanguages:     text(ColSpokenLanguages, i),
		}
		if v, ok := cell(ColGenres, i); ok {
			r.Genres = movie.SplitGenres(v)
		} else {
			r.Genres = []string{movie.Unknown}
		}
		switch {
		case hasDate:
			raw, ok := cell(ColReleaseDate, i)
			if !ok && fillSet[ColReleaseDate] {
				raw = movie.Unknown
			}
			if t, ok := parseDate(raw); ok {
				r.ReleaseDate = t
			}
		case hasYear:
			if v, ok := cell(ColReleaseYear, i); ok {
				if y, ok := parseYear(v); ok {
					r.ReleaseYear = movie.SomeInt(y)
				} else {
					res.warn(log, "row %d: release_year %q is not a year", i+2, v)
				}
			}
		}
		for _, c := range fill {
			applyFill(&r, c)
		}
		r = r.Derive()

		k := r.Key()
		if seen[k] {
			res.DuplicatesRemoved++
			continue
		}
		seen[k] = true
		res.Records = append(res.Records, r)
	}
	res.After = ProfileRecords(res.Records)
	log.Debug("dataset normalized",
		"file", f.Name,
		"rows", f.DF.Nrow(),
		"records", len(res.Records),
		"duplicates", res.DuplicatesRemoved,
		"skipped", res.SkippedRows,
		"warnings", res.WarningCount,
	)
	return res, nil
}

// applyFill makes sure a filled string column never carries an empty value,
// even when the source lacks the column entirely.
func applyFill(r *movie.Record, col string) {
	var p *string
	switch col {
	case ColTitle:
		p = &r.Title
	case ColOriginalTitle:
		p = &r.OriginalTitle
	case ColProductionCompanies:
		p = &r.ProductionCompanies
	case ColProductionCountries:
		p = &r.ProductionCountries
	case ColSpokenLanguages:
		p = &r.SpokenLanguages
	case ColGenres:
		if len(r.Genres) == 0 {
			r.Genres = []string{movie.Unknown}
		}
		return
	default:
		return
	}
	if strings.TrimSpace(*p) == "" {
		*p = movie.Unknown
	}
}

func (r *Result) warn(log *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.WarningCount++
	if len(r.Warnings) < maxWarnings {
		r.Warnings = append(r.Warnings, msg)
	}
	log.Debug("row warning", "detail", msg)
}
