package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
	"github.com/KaramelBytes/reelstats-cli/internal/pipeline"
	"github.com/KaramelBytes/reelstats-cli/internal/utils"
)

// CorrelationName names the correlation matrix in CSV and XLSX output.
const CorrelationName = "correlations"

// CorrelationTable lays a matrix out as a table keyed by field.
func CorrelationTable(m aggregate.Matrix) aggregate.Table {
	t := aggregate.Table{Name: CorrelationName, KeyName: "field", Columns: append([]string(nil), m.Fields...)}
	for i, f := range m.Fields {
		row := aggregate.Row{Key: f, Count: m.N[i][i], Values: make([]movie.Num, len(m.Fields))}
		for j := range m.Fields {
			row.Values[j] = movie.Some(m.Values[i][j])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Tables returns the output tables followed by the correlation table, if any.
func Tables(out *pipeline.Output) []aggregate.Table {
	tables := append([]aggregate.Table(nil), out.Tables...)
	if out.Corr != nil {
		tables = append(tables, CorrelationTable(*out.Corr))
	}
	return tables
}

// WriteCSV writes one <name>.csv per table into dir and returns the paths.
// Missing values are written as empty cells.
func WriteCSV(dir string, tables []aggregate.Table) ([]string, error) {
	if err := utils.EnsureProjectDir(dir); err != nil {
		return nil, fmt.Errorf("create csv dir: %w", err)
	}
	var paths []string
	for _, t := range tables {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		header := append([]string{t.KeyName}, t.Columns...)
		if err := w.Write(header); err != nil {
			return paths, fmt.Errorf("write %s header: %w", t.Name, err)
		}
		for _, r := range t.Rows {
			rec := make([]string, 0, len(r.Values)+1)
			rec = append(rec, r.Key)
			for _, v := range r.Values {
				rec = append(rec, csvNum(v))
			}
			if err := w.Write(rec); err != nil {
				return paths, fmt.Errorf("write %s row: %w", t.Name, err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return paths, fmt.Errorf("flush %s: %w", t.Name, err)
		}
		p := filepath.Join(dir, t.Name+".csv")
		if err := utils.SafeWriteFile(p, buf.Bytes()); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func csvNum(n movie.Num) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// WriteXLSX writes one sheet per table plus a correlations sheet.
func WriteXLSX(path string, out *pipeline.Output) error {
	if err := utils.EnsureProjectDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create xlsx dir: %w", err)
	}
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	tables := Tables(out)
	if len(tables) == 0 {
		if err := f.SaveAs(path); err != nil {
			return fmt.Errorf("save xlsx: %w", err)
		}
		return nil
	}
	for i, t := range tables {
		sheet := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("add sheet %s: %w", sheet, err)
		}
		header := append([]string{t.KeyName}, t.Columns...)
		header = append(header, "n")
		for c, name := range header {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("write %s header: %w", sheet, err)
			}
		}
		for r, row := range t.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetCellValue(sheet, cell, row.Key); err != nil {
				return fmt.Errorf("write %s: %w", sheet, err)
			}
			for c, v := range row.Values {
				if !v.Valid {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
				if err := f.SetCellValue(sheet, cell, v.Value); err != nil {
					return fmt.Errorf("write %s: %w", sheet, err)
				}
			}
			cell, _ = excelize.CoordinatesToCellName(len(row.Values)+2, r+2)
			if err := f.SetCellValue(sheet, cell, row.Count); err != nil {
				return fmt.Errorf("write %s: %w", sheet, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// sheetName trims names to the 31 characters Excel allows.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
