// Package pipeline runs a dataset through load, normalize, filter and the
// standard summary views.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	"github.com/KaramelBytes/reelstats-cli/internal/dataset"
	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/KaramelBytes/reelstats-cli/internal/logger"
)

// Options configures one run.
type Options struct {
	Path       string
	Load       dataset.LoadOptions
	Fill       []string
	Preset     filter.Preset
	TopN       int
	OthersMode aggregate.OthersMode
	Logger     *slog.Logger
}

// DefaultTopN is used when Options.TopN is unset.
const DefaultTopN = 10

// Output is everything a run produced.
type Output struct {
	RunID     string
	Source    string
	Preset    filter.Preset
	StartedAt time.Time
	Duration  time.Duration

	// Row accounting
	RowsRead   int
	Normalized int
	Filtered   int
	Rejected   map[string]int

	Clean        *dataset.Result
	Tables       []aggregate.Table
	SkippedViews []string
	Corr         *aggregate.Matrix
}

// Table returns the named table.
func (o *Output) Table(name string) (aggregate.Table, bool) {
	for _, t := range o.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return aggregate.Table{}, false
}

// Err reports the state of a view: nil when it has rows, ErrEmptyResult when
// it is empty, and a schema error when it was skipped or never built.
func (o *Output) Err(name string) error {
	t, ok := o.Table(name)
	if !ok {
		return apperrors.ErrSchemaViolation.With("view", name).WithCause(fmt.Errorf("view %s was not built", name))
	}
	if t.Empty() {
		return apperrors.EmptyResult(name)
	}
	return nil
}

// Run loads opt.Path and processes it.
func Run(ctx context.Context, opt Options) (*Output, error) {
	log := logger.OrDefault(opt.Logger)
	log.Debug("loading dataset", "file", opt.Path)
	f, err := dataset.Load(opt.Path, opt.Load)
	if err != nil {
		return nil, err
	}
	out, err := Process(ctx, f, opt)
	if err != nil {
		return nil, err
	}
	out.Source = opt.Path
	return out, nil
}

// Process runs an already loaded frame through normalize, filter and the
// standard views. The context is checked between stages.
func Process(ctx context.Context, f *dataset.Frame, opt Options) (*Output, error) {
	log := logger.OrDefault(opt.Logger)
	if opt.Preset.Name == "" {
		opt.Preset = filter.Classic
	}
	if err := opt.Preset.Validate(); err != nil {
		return nil, err
	}
	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}
	if opt.OthersMode == "" {
		opt.OthersMode = aggregate.OthersSum
	}

	out := &Output{
		RunID:     uuid.New().String(),
		Source:    f.Name,
		Preset:    opt.Preset,
		StartedAt: time.Now(),
		RowsRead:  f.RowsRead,
	}
	log = log.With("run_id", out.RunID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := dataset.Normalize(f, dataset.NormalizeOptions{Fill: opt.Fill, Logger: log})
	if err != nil {
		return nil, err
	}
	out.Clean = res
	out.Normalized = len(res.Records)
	if res.WarningCount > 0 || res.SkippedRows > 0 {
		log.Info("row problems found",
			"warnings", res.WarningCount,
			"skipped_rows", res.SkippedRows,
		)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds := opt.Preset.Predicates()
	filtered := filter.Apply(res.Records, preds...)
	out.Filtered = len(filtered)
	out.Rejected = filter.Count(res.Records, preds...)
	if len(filtered) == 0 && len(res.Records) > 0 {
		log.Warn("filter removed every record", "preset", opt.Preset.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := viewInput{
		normalized: res.Records,
		filtered:   filtered,
		yearScoped: filter.Apply(res.Records, opt.Preset.YearPredicates()...),
		opt:        opt,
	}
	for _, v := range standardViews {
		if missing := v.missing(f); missing != "" {
			out.SkippedViews = append(out.SkippedViews, v.name)
			log.Info("view skipped", "view", v.name, "missing_column", missing)
			continue
		}
		t := v.build(in).Named(v.name)
		if t.Empty() {
			log.Info("view has no data", "view", v.name)
		}
		out.Tables = append(out.Tables, t)
	}

	fields := correlationFields(f)
	if len(fields) >= 2 {
		m := aggregate.Correlation(res.Records, fields...)
		out.Corr = &m
	}
	out.Duration = time.Since(out.StartedAt)
	log.Info("pipeline complete",
		"file", f.Name,
		"preset", opt.Preset.Name,
		"rows", out.RowsRead,
		"records", out.Normalized,
		"filtered", out.Filtered,
		"tables", len(out.Tables),
		"duration", out.Duration,
	)
	return out, nil
}

func correlationFields(f *dataset.Frame) []aggregate.Field {
	var fields []aggregate.Field
	for _, fl := range aggregate.NumericFields {
		switch fl.Name {
		case aggregate.Profit.Name:
			if f.Has(dataset.ColBudget) && f.Has(dataset.ColRevenue) {
				fields = append(fields, fl)
			}
		default:
			if f.Has(fl.Name) {
				fields = append(fields, fl)
			}
		}
	}
	return fields
}
