package pipeline

import (
	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	"github.com/KaramelBytes/reelstats-cli/internal/dataset"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
)

// View names.
const (
	ViewRuntimeByYear       = "runtime_by_year"
	ViewBudgetRevenueByYear = "budget_revenue_by_year"
	ViewProfitByYear        = "profit_by_year"
	ViewMoviesByYear        = "movies_by_year"
	ViewTopGenresByRevenue  = "top_genres_by_revenue"
	ViewGenreGrossVotes     = "genre_gross_votes"
	ViewRatingCounts        = "rating_counts"
	ViewRatingGroupCounts   = "rating_group_counts"
	ViewTopCountries        = "top_countries"
	ViewGenreCounts         = "genre_counts"
	ViewGenreRevenueShare   = "genre_revenue_share"
)

// needYear is satisfied by either a release_date or a release_year column.
const needYear = "release_date|release_year"

type viewInput struct {
	normalized []movie.Record
	filtered   []movie.Record
	// yearScoped keeps only the preset's year checks.
	yearScoped []movie.Record
	opt        Options
}

type view struct {
	name  string
	needs []string
	build func(viewInput) aggregate.Table
}

// missing returns the first needed column f lacks, or "".
func (v view) missing(f *dataset.Frame) string {
	for _, c := range v.needs {
		if c == needYear {
			if !f.Has(dataset.ColReleaseDate) && !f.Has(dataset.ColReleaseYear) {
				return c
			}
			continue
		}
		if !f.Has(c) {
			return c
		}
	}
	return ""
}

// Financial by-year views use the filtered set; genre and count views use
// every normalized record.
var standardViews = []view{
	{
		name:  ViewRuntimeByYear,
		needs: []string{needYear, dataset.ColRuntime},
		build: func(in viewInput) aggregate.Table {
			return aggregate.GroupBy(in.filtered, aggregate.ByYear, aggregate.MeanOf(aggregate.Runtime)).SortByKey()
		},
	},
	{
		name:  ViewBudgetRevenueByYear,
		needs: []string{needYear, dataset.ColBudget, dataset.ColRevenue},
		build: func(in viewInput) aggregate.Table {
			return aggregate.GroupBy(in.filtered, aggregate.ByYear,
				aggregate.MeanOf(aggregate.Budget), aggregate.MeanOf(aggregate.Revenue)).SortByKey()
		},
	},
	{
		name:  ViewProfitByYear,
		needs: []string{needYear, dataset.ColBudget, dataset.ColRevenue},
		build: func(in viewInput) aggregate.Table {
			return aggregate.GroupBy(in.filtered, aggregate.ByYear, aggregate.MeanOf(aggregate.Profit)).SortByKey()
		},
	},
	{
		name:  ViewMoviesByYear,
		needs: []string{needYear},
		build: func(in viewInput) aggregate.Table {
			return aggregate.GroupBy(in.yearScoped, aggregate.ByYear, aggregate.CountRecords).SortByKey()
		},
	},
	{
		name:  ViewTopGenresByRevenue,
		needs: []string{dataset.ColGenres, dataset.ColRevenue},
		build: func(in viewInput) aggregate.Table {
			return aggregate.TopN(in.normalized, aggregate.ByFirstGenre, in.opt.TopN, aggregate.MeanOf(aggregate.Revenue))
		},
	},
	{
		name:  ViewGenreGrossVotes,
		needs: []string{dataset.ColGenres, dataset.ColRevenue, dataset.ColVotes},
		build: func(in viewInput) aggregate.Table {
			return aggregate.GroupBy(in.normalized, aggregate.ByFirstGenre,
				aggregate.MeanOf(aggregate.Revenue), aggregate.MeanOf(aggregate.Votes)).SortBy(aggregate.Revenue.Name)
		},
	},
	{
		name:  ViewRatingCounts,
		needs: []string{dataset.ColRating},
		build: func(in viewInput) aggregate.Table {
			return aggregate.ValueCounts(in.normalized, aggregate.ByRating)
		},
	},
	{
		name:  ViewRatingGroupCounts,
		needs: []string{dataset.ColRating},
		build: func(in viewInput) aggregate.Table {
			return aggregate.ValueCounts(in.normalized, aggregate.ByRatingGroup)
		},
	},
	{
		name:  ViewTopCountries,
		needs: []string{dataset.ColCountry},
		build: func(in viewInput) aggregate.Table {
			return aggregate.TopN(in.normalized, aggregate.ByCountry, in.opt.TopN, aggregate.CountRecords)
		},
	},
	{
		name:  ViewGenreCounts,
		needs: []string{dataset.ColGenres},
		build: func(in viewInput) aggregate.Table {
			return aggregate.ValueCounts(in.normalized, aggregate.ByFirstGenre)
		},
	},
	{
		name:  ViewGenreRevenueShare,
		needs: []string{dataset.ColGenres, dataset.ColRevenue},
		build: func(in viewInput) aggregate.Table {
			full := aggregate.GroupBy(in.normalized, aggregate.ByFirstGenre, aggregate.SumOf(aggregate.Revenue))
			return aggregate.TopNPlusOthers(full, aggregate.Revenue.Name, in.opt.TopN, in.opt.OthersMode)
		},
	},
}
