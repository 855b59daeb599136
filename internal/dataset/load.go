// Package dataset loads movie metadata files into typed records.
//
// Loading is split in two stages. Load reads a source file into a
// string-typed gota DataFrame with canonical column names; Normalize turns
// that frame into []movie.Record, filling placeholders, parsing numbers and
// dates, and removing duplicate rows.
package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
)

// NaNValues are cell contents treated as missing.
var NaNValues = []string{"", "NA", "NaN", "nan", "null", "NULL"}

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, picked from the file extension.
	Delimiter rune
	// Sheet selects an xlsx worksheet by name; empty means the first sheet.
	Sheet string
	// Required columns (canonical names). Defaults to DefaultRequiredColumns.
	Required []string
	// Drop lists columns removed after load. Defaults to DefaultDropColumns.
	Drop []string
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// DefaultLoadOptions returns the options used when nothing is configured.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Required: append([]string(nil), DefaultRequiredColumns...),
		Drop:     append([]string(nil), DefaultDropColumns...),
	}
}

// Frame is a raw dataset: every column a string series, names canonical.
type Frame struct {
	Name     string
	DF       dataframe.DataFrame
	RowsRead int
	Skipped  int
	Dropped  []string
	Warnings []string
}

// Has reports whether the frame carries the named column.
func (f *Frame) Has(col string) bool {
	for _, n := range f.DF.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Load reads path with the first registered source that accepts it.
func Load(path string, opt LoadOptions) (*Frame, error) {
	src, err := sourceFor(path)
	if err != nil {
		return nil, apperrors.SourceUnreadable(path, err)
	}
	rows, err := src.ReadRows(path, opt)
	if err != nil {
		return nil, apperrors.SourceUnreadable(path, err)
	}
	f, err := FromRows(filepath.Base(path), rows, opt)
	if err != nil {
		var ae *apperrors.Error
		if apperrors.As(err, &ae) {
			return nil, ae.With("file", path)
		}
		return nil, err
	}
	return f, nil
}

// FromRows builds a Frame from raw rows, header first.
func FromRows(name string, rows [][]string, opt LoadOptions) (*Frame, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, apperrors.SourceUnreadable(name, fmt.Errorf("no header row"))
	}
	if opt.Required == nil {
		opt.Required = DefaultRequiredColumns
	}
	if opt.Drop == nil {
		opt.Drop = DefaultDropColumns
	}
	header := canonicalHeader(rows[0])
	f := &Frame{Name: name}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, req := range opt.Required {
		if !hasColumn(present, req) {
			return nil, apperrors.MissingColumn(name, req)
		}
	}

	ncol := len(header)
	data := make([][]string, 0, len(rows))
	for i, rec := range rows[1:] {
		if opt.MaxRows > 0 && f.RowsRead >= opt.MaxRows {
			f.Warnings = append(f.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", opt.MaxRows, len(rows)-1))
			break
		}
		f.RowsRead++
		if isBlank(rec) {
			f.Skipped++
			continue
		}
		if len(rec) != ncol {
			f.Skipped++
			f.warnf("row %d: expected %d fields, got %d; skipped", i+2, ncol, len(rec))
			continue
		}
		data = append(data, rec)
	}

	df := buildFrame(header, data)
	if df.Err != nil {
		return nil, apperrors.SourceUnreadable(name, df.Err)
	}

	var drop []string
	for _, d := range opt.Drop {
		if present[d] {
			drop = append(drop, d)
		}
	}
	if len(drop) > 0 && len(drop) < ncol {
		df = df.Drop(drop)
		if df.Err != nil {
			return nil, apperrors.SourceUnreadable(name, df.Err)
		}
		f.Dropped = drop
	}
	f.DF = df
	return f, nil
}

func buildFrame(header []string, data [][]string) dataframe.DataFrame {
	if len(data) == 0 {
		cols := make([]series.Series, len(header))
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		return dataframe.New(cols...)
	}
	records := make([][]string, 0, len(data)+1)
	records = append(records, header)
	records = append(records, data...)
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NaNValues),
	)
}

const maxWarnings = 50

func (f *Frame) warnf(format string, args ...any) {
	if len(f.Warnings) < maxWarnings {
		f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
	}
}

// hasColumn matches a required name as written in the file or through its
// alias.
func hasColumn(present map[string]bool, req string) bool {
	n := plainName(req)
	if present[n] {
		return true
	}
	a, ok := columnAliases[n]
	return ok && present[a]
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
