// Package report renders pipeline output as Markdown, CSV and XLSX.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	"github.com/KaramelBytes/reelstats-cli/internal/dataset"
	"github.com/KaramelBytes/reelstats-cli/internal/movie"
	"github.com/KaramelBytes/reelstats-cli/internal/pipeline"
)

// Options controls Markdown rendering.
type Options struct {
	// MaxRows caps rows printed per table; 0 prints every row.
	MaxRows int
	// Profile includes the per-column profile section.
	Profile bool
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func Markdown(out *pipeline.Output, opt Options) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if out.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", out.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", out.RunID))
	b.WriteString(fmt.Sprintf("Preset: %s\n", out.Preset.String()))
	b.WriteString(fmt.Sprintf("Rows: %d (normalized %d, after filter %d)\n", out.RowsRead, out.Normalized, out.Filtered))
	b.WriteString(fmt.Sprintf("Tables: %d\n", len(out.Tables)))

	if c := out.Clean; c != nil {
		b.WriteString("\n[CLEANING]\n")
		b.WriteString(fmt.Sprintf("- skipped rows: %d\n", c.SkippedRows))
		b.WriteString(fmt.Sprintf("- duplicates removed: %d\n", c.DuplicatesRemoved))
		b.WriteString(fmt.Sprintf("- row warnings: %d\n", c.WarningCount))
		names := make([]string, 0, len(out.Rejected))
		for k := range out.Rejected {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			b.WriteString(fmt.Sprintf("- rejected by %s: %d\n", k, out.Rejected[k]))
		}
		if opt.Profile {
			writeProfile(&b, c.Before)
		}
	}

	for _, t := range out.Tables {
		writeTable(&b, t, opt.MaxRows)
	}

	if out.Corr != nil && !out.Corr.Empty() {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range topPairs(*out.Corr, 10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.a, p.b, p.r, p.n))
		}
	}

	var notes []string
	for _, v := range out.SkippedViews {
		notes = append(notes, fmt.Sprintf("view %s skipped: source lacks a needed column", v))
	}
	if out.Clean != nil {
		notes = append(notes, out.Clean.Warnings...)
		if extra := out.Clean.WarningCount - len(out.Clean.Warnings); extra > 0 {
			notes = append(notes, fmt.Sprintf("... and %d more row warnings", extra))
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeProfile(b *strings.Builder, p dataset.Profile) {
	b.WriteString("\n[PROFILE]\n")
	for _, c := range p.Columns {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", c.Name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
}

func writeTable(b *strings.Builder, t aggregate.Table, maxRows int) {
	b.WriteString(fmt.Sprintf("\n[%s]\n", strings.ToUpper(t.Name)))
	if t.Empty() {
		b.WriteString("(no data)\n")
		return
	}
	b.WriteString("| " + t.KeyName)
	for _, c := range t.Columns {
		b.WriteString(" | " + c)
	}
	b.WriteString(" | n |\n|")
	for i := 0; i < len(t.Columns)+2; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for _, r := range rows {
		b.WriteString("| " + safeVal(r.Key))
		for _, v := range r.Values {
			b.WriteString(" | " + formatNum(v))
		}
		b.WriteString(fmt.Sprintf(" | %d |\n", r.Count))
	}
	if len(rows) < len(t.Rows) {
		b.WriteString(fmt.Sprintf("(%d more rows)\n", len(t.Rows)-len(rows)))
	}
}

// formatNum prints integers exactly and fractions with two decimals.
func formatNum(n movie.Num) string {
	if !n.Valid {
		return ""
	}
	if n.Value == math.Trunc(n.Value) {
		return n.String()
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

type pair struct {
	a, b string
	r    float64
	n    int
}

// topPairs lists off-diagonal pairs with data, strongest first.
func topPairs(m aggregate.Matrix, limit int) []pair {
	var pairs []pair
	for i := range m.Fields {
		for j := i + 1; j < len(m.Fields); j++ {
			if m.N[i][j] < 2 {
				continue
			}
			pairs = append(pairs, pair{a: m.Fields[i], b: m.Fields[j], r: m.Values[i][j], n: m.N[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
