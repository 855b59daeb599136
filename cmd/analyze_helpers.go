package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/reelstats-cli/internal/aggregate"
	cfgpkg "github.com/KaramelBytes/reelstats-cli/internal/config"
	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/pipeline"
	"github.com/KaramelBytes/reelstats-cli/internal/project"
	"github.com/KaramelBytes/reelstats-cli/internal/report"
	"github.com/KaramelBytes/reelstats-cli/internal/utils"
)

// runFlags are the pipeline flags shared by analyze and analyze-batch.
type runFlags struct {
	preset    string
	topN      int
	others    string
	delimiter string
	sheet     string
	maxRows   int
	required  []string
	fill      []string
	tableRows int
	profile   bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.preset, "preset", "", "filter preset: classic | extended | none (default from config)")
	fs.IntVar(&f.topN, "top-n", 0, "rows kept in top-N views before folding into Others (default from config)")
	fs.StringVar(&f.others, "others", "", "how folded rows are combined: sum | mean (default from config)")
	fs.StringVar(&f.delimiter, "delimiter", "", "delimiter for text files: ',' | ';' | '|' | 'tab'")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	fs.IntVar(&f.maxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
	fs.StringSliceVar(&f.required, "require", nil, "columns that must be present (default from config)")
	fs.StringSliceVar(&f.fill, "fill", nil, "text columns whose missing values are filled with Unknown (default from config)")
	fs.IntVar(&f.tableRows, "table-rows", 25, "maximum rows printed per table in Markdown (0 = all)")
	fs.BoolVar(&f.profile, "profile", false, "include a per-column profile in the Markdown report")
}

func (f *runFlags) markdownOptions() report.Options {
	return report.Options{MaxRows: f.tableRows, Profile: f.profile}
}

// pipelineOptions merges config values with flag overrides. projectPreset is
// used when no --preset is given.
func (f *runFlags) pipelineOptions(c *cfgpkg.Global, projectPreset string) (pipeline.Options, error) {
	name := f.preset
	if name == "" {
		name = projectPreset
	}
	preset, err := c.Preset(name)
	if err != nil {
		return pipeline.Options{}, err
	}
	load := c.LoadOptions()
	if f.delimiter != "" {
		d, err := parseDelimiter(f.delimiter)
		if err != nil {
			return pipeline.Options{}, err
		}
		load.Delimiter = d
	}
	if f.sheet != "" {
		load.Sheet = f.sheet
	}
	if f.maxRows > 0 {
		load.MaxRows = f.maxRows
	}
	if len(f.required) > 0 {
		load.Required = f.required
	}
	fill := c.FillColumns
	if len(f.fill) > 0 {
		fill = f.fill
	}
	topN := c.TopN
	if f.topN > 0 {
		topN = f.topN
	}
	mode := c.OthersMode
	if f.others != "" {
		mode = strings.ToLower(strings.TrimSpace(f.others))
	}
	switch aggregate.OthersMode(mode) {
	case aggregate.OthersSum, aggregate.OthersMean:
	default:
		return pipeline.Options{}, apperrors.Config(fmt.Sprintf("unsupported --others: %s (use sum|mean)", f.others))
	}
	return pipeline.Options{
		Load:       load,
		Fill:       fill,
		Preset:     preset,
		TopN:       topN,
		OthersMode: aggregate.OthersMode(mode),
		Logger:     appLog.Logger,
	}, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, apperrors.Config(fmt.Sprintf("unsupported --delimiter: %s", s))
}

// reportTargets names optional output locations; empty fields are skipped.
type reportTargets struct {
	markdown string
	csvDir   string
	xlsx     string
}

// writeReports writes md and the table exports, returning the paths written.
func writeReports(out *pipeline.Output, md string, t reportTargets) ([]string, error) {
	var written []string
	if t.markdown != "" {
		if err := utils.SafeWriteFile(t.markdown, []byte(md)); err != nil {
			return written, fmt.Errorf("write output: %w", err)
		}
		written = append(written, t.markdown)
	}
	if t.csvDir != "" {
		paths, err := report.WriteCSV(t.csvDir, report.Tables(out))
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}
	if t.xlsx != "" {
		if err := report.WriteXLSX(t.xlsx, out); err != nil {
			return written, err
		}
		written = append(written, t.xlsx)
	}
	return written, nil
}

// recordRun writes the full report set under the project's reports dir and
// appends the run to the project history.
func recordRun(p *project.Project, out *pipeline.Output, md string) (*project.Run, error) {
	dir := p.ReportsDir(out.RunID)
	paths, err := writeReports(out, md, reportTargets{
		markdown: filepath.Join(dir, "report.md"),
		csvDir:   filepath.Join(dir, "csv"),
		xlsx:     filepath.Join(dir, "report.xlsx"),
	})
	if err != nil {
		return nil, err
	}
	rel := make([]string, 0, len(paths))
	for _, pth := range paths {
		if r, err := filepath.Rel(p.RootDir(), pth); err == nil {
			pth = r
		}
		rel = append(rel, filepath.ToSlash(pth))
	}
	warnings := 0
	if out.Clean != nil {
		warnings = out.Clean.WarningCount
	}
	run := p.AddRun(project.Run{
		ID:       out.RunID,
		Source:   out.Source,
		Preset:   out.Preset.Name,
		RowsRead: out.RowsRead,
		Records:  out.Normalized,
		Filtered: out.Filtered,
		Tables:   len(out.Tables),
		Warnings: warnings,
		Reports:  rel,
	})
	if err := p.Save(); err != nil {
		return nil, err
	}
	return run, nil
}

// openProject accepts a project name under the projects dir, or a path
// inside a project directory ("." included).
func openProject(ref string) (*project.Project, error) {
	if ref == "." || strings.ContainsRune(ref, os.PathSeparator) || strings.ContainsRune(ref, '/') {
		root, err := utils.FindProjectRoot(ref)
		if err != nil {
			return nil, err
		}
		return project.LoadProject(root)
	}
	dir, err := resolveProjectDirByName(ref)
	if err != nil {
		return nil, err
	}
	return project.LoadProject(dir)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
