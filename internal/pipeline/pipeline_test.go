package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/KaramelBytes/reelstats-cli/internal/logger"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

const tmdbCSV = `title,budget,revenue,runtime,release_date,genres,vote_count,homepage
Alpha,100,300,120,2000-05-01,"Action, Drama",10,http://a
Beta,0,50,95,2000-07-04,Drama,20,
Gamma,200,150,100,2001-01-01,Comedy,5,
Delta,50,80,110,sometime,Drama,7,
Short,10,20,12,2001-03-03,Animation,1,
Alpha,100,300,120,2000-05-01,"Action, Drama",10,http://a
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, path string, opt Options) *Output {
	t.Helper()
	opt.Path = path
	if opt.Logger == nil {
		opt.Logger = logger.Discard().Logger
	}
	out, err := Run(context.Background(), opt)
	require.NoError(t, err)
	return out
}

func TestRun_StandardViews(t *testing.T) {
	out := run(t, writeCSV(t, tmdbCSV), Options{Preset: filter.Classic})

	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 6, out.RowsRead)
	assert.Equal(t, 5, out.Normalized)
	assert.Equal(t, 1, out.Clean.DuplicatesRemoved)
	// Beta (budget 0), Delta (no year) and Short (runtime 12) are filtered
	assert.Equal(t, 2, out.Filtered)

	profit, ok := out.Table(ViewProfitByYear)
	require.True(t, ok)
	assert.Equal(t, []string{"2000", "2001"}, profit.Keys())
	v, _ := profit.Value("2000", "profit")
	assert.Equal(t, movie.Some(200), v)
	v, _ = profit.Value("2001", "profit")
	assert.Equal(t, movie.Some(-50), v)

	// Delta has no parseable date but still counts toward genre views
	genres, ok := out.Table(ViewGenreCounts)
	require.True(t, ok)
	n, _ := genres.Value("Drama", aggregate.ColCount)
	assert.Equal(t, movie.Some(2), n)

	byYear, _ := out.Table(ViewMoviesByYear)
	assert.Equal(t, []string{"2000", "2001"}, byYear.Keys())
	n, _ = byYear.Value("2001", aggregate.ColCount)
	assert.Equal(t, movie.Some(2), n)

	// views needing absent columns are skipped, not failed
	assert.ElementsMatch(t,
		[]string{ViewRatingCounts, ViewRatingGroupCounts, ViewTopCountries},
		out.SkippedViews)
	assert.ErrorIs(t, out.Err(ViewTopCountries), apperrors.ErrSchemaViolation)
	assert.NoError(t, out.Err(ViewProfitByYear))

	require.NotNil(t, out.Corr)
	assert.NotContains(t, out.Corr.Fields, "score")
	assert.Contains(t, out.Corr.Fields, "profit")
}

func TestRun_Idempotent(t *testing.T) {
	p := writeCSV(t, tmdbCSV)
	a := run(t, p, Options{})
	b := run(t, p, Options{})
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Tables, b.Tables)
	assert.Equal(t, a.Corr, b.Corr)
}

func TestRun_GenreRevenueShareSumPreserved(t *testing.T) {
	out := run(t, writeCSV(t, tmdbCSV), Options{TopN: 1})
	share, ok := out.Table(ViewGenreRevenueShare)
	require.True(t, ok)
	assert.Equal(t, []string{"Action", aggregate.OthersKey}, share.Keys())
	var total float64
	for _, r := range share.Rows {
		total += r.Values[0].Value
	}
	assert.InDelta(t, 300+50+150+80+20, total, 1e-9)
}

func TestRun_EmptyFilterKeepsEmptyTables(t *testing.T) {
	csv := "title,budget,revenue,runtime,release_date\nA,0,0,90,2000-01-01\n"
	out := run(t, writeCSV(t, csv), Options{})
	assert.Equal(t, 0, out.Filtered)
	tbl, ok := out.Table(ViewRuntimeByYear)
	require.True(t, ok)
	assert.True(t, tbl.Empty())
	assert.True(t, apperrors.Is(out.Err(ViewRuntimeByYear), apperrors.ErrEmptyResult))
	assert.False(t, apperrors.CodeOf(out.Err(ViewRuntimeByYear)).Fatal())
}

func TestRun_MoviesCSVSchema(t *testing.T) {
	csv := "name,rating,genre,year,released,score,votes,country,budget,gross,runtime\n" +
		"A,R,Drama,1980,\"June 13, 1980 (United States)\",8.4,100,United States,10,30,100\n" +
		"B,PG-13,Action,1999,\"March 31, 1999 (United States)\",8.7,300,United States,60,460,136\n" +
		"C,Not Rated,Drama,1960,\"1960 (Italy)\",7.0,50,Italy,,,90\n"
	out := run(t, writeCSV(t, csv), Options{Preset: filter.Extended})
	assert.Empty(t, out.SkippedViews)

	groups, _ := out.Table(ViewRatingGroupCounts)
	assert.ElementsMatch(t, []string{movie.Group18Plus, movie.Group13Plus, movie.GroupUnrated}, groups.Keys())

	gv, _ := out.Table(ViewGenreGrossVotes)
	assert.Equal(t, []string{"Action", "Drama"}, gv.Keys())

	countries, _ := out.Table(ViewTopCountries)
	assert.Equal(t, []string{"United States", "Italy"}, countries.Keys())
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing.csv")})
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceUnreadable))

	_, err = Run(context.Background(), Options{Path: writeCSV(t, "budget\n1\n")})
	assert.True(t, apperrors.Is(err, apperrors.ErrSchemaViolation))

	bad := filter.Preset{Name: "bad", MinYear: 2000, MaxYear: 1990}
	_, err = Run(context.Background(), Options{Path: writeCSV(t, tmdbCSV), Preset: bad})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Path: writeCSV(t, tmdbCSV), Logger: logger.Discard().Logger})
	assert.ErrorIs(t, err, context.Canceled)
}
