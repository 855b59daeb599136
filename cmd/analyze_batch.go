package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/pipeline"
	"github.com/KaramelBytes/reelstats-cli/internal/project"
	"github.com/KaramelBytes/reelstats-cli/internal/report"
	"github.com/KaramelBytes/reelstats-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abProject   string
	abOutDir    string
	abXLSX      bool
	abKeepGoing bool
	abQuiet     bool
	abFlags     runFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress and optional project runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		c, err := currentConfig()
		if err != nil {
			return err
		}

		var p *project.Project
		projPreset := ""
		if abProject != "" {
			if p, err = openProject(abProject); err != nil {
				return err
			}
			projPreset = p.Preset
		}
		opt, err := abFlags.pipelineOptions(c, projPreset)
		if err != nil {
			return err
		}
		outDir := abOutDir
		if outDir == "" && p == nil && abXLSX {
			outDir = c.OutputDir
		}

		var failures []error
		total := len(files)
		for i, path := range files {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			opt.Path = path
			out, err := pipeline.Run(cmd.Context(), opt)
			if err != nil {
				if !abKeepGoing || cmd.Context().Err() != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", filepath.Base(path), err)
				failures = append(failures, fmt.Errorf("%s: %w", path, err))
				continue
			}
			md := report.Markdown(out, abFlags.markdownOptions())

			written := false
			if outDir != "" {
				base := batchBase(path, abFlags.sheet)
				targets := reportTargets{markdown: utils.UniquePath(outDir, base, ".report.md")}
				if abXLSX {
					targets.xlsx = utils.UniquePath(outDir, base, ".xlsx")
				}
				paths, err := writeReports(out, md, targets)
				if err != nil {
					return err
				}
				if !abQuiet {
					for _, w := range paths {
						fmt.Printf("✓ Wrote %s\n", w)
					}
				}
				written = true
			}
			if p != nil {
				run, err := recordRun(p, out, md)
				if err != nil {
					return err
				}
				if !abQuiet {
					fmt.Printf("✓ Recorded run %s in project '%s'\n", shortID(run.ID), p.Name)
				}
				written = true
			}
			if !written && !abQuiet {
				fmt.Println(md)
			}
		}
		if len(failures) > 0 {
			return apperrors.Join(failures...)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// batchBase names the per-file report, adding the sheet when one is chosen.
func batchBase(path, sheet string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if sheet == "" {
		return base
	}
	s := utils.Slug(sheet)
	if s == "" {
		s = "sheet"
	}
	return base + "__sheet-" + s
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abProject, "project", "p", "", "project name (or path inside a project) to record runs in")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for <file>.report.md outputs (collisions get a __N suffix)")
	analyzeBatchCmd.Flags().BoolVar(&abXLSX, "xlsx", false, "also write an XLSX workbook per file into --out-dir")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue with the next file when one fails")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.register(analyzeBatchCmd.Flags())
}
