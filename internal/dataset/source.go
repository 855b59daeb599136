package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source reads a tabular file into raw string rows, header first.
type Source interface {
	CanRead(filename string) bool
	ReadRows(path string, opt LoadOptions) ([][]string, error)
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// ErrUnsupported indicates a file format no registered source can read.
var ErrUnsupported = errors.New("unsupported dataset format")

func sourceFor(path string) (Source, error) {
	for _, s := range registry {
		if s.CanRead(path) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}

type csvSource struct{}

func (csvSource) CanRead(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvSource) ReadRows(path string, opt LoadOptions) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

type xlsxSource struct{}

func (xlsxSource) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// ReadRows reads opt.Sheet, or the first sheet when unset.
func (xlsxSource) ReadRows(path string, opt LoadOptions) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found; available sheets: %s", opt.Sheet, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	// GetRows trims trailing empty cells; pad to header width so short rows
	// are not mistaken for malformed ones.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			if n := len(rows[i]); n < width {
				rows[i] = append(rows[i], make([]string, width-n)...)
			}
		}
	}
	return rows, nil
}
