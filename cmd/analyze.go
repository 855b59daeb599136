package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/KaramelBytes/reelstats-cli/internal/pipeline"
	"github.com/KaramelBytes/reelstats-cli/internal/project"
	"github.com/KaramelBytes/reelstats-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	anaProject    string
	anaOutputPath string
	anaCSVDir     string
	anaXLSXPath   string
	anaFlags      runFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Clean a movie dataset and print its summary tables",
	Long: `Analyze loads a CSV/TSV/XLSX movie export, normalizes it, applies the filter
preset and builds the standard summary views. Without output flags the
Markdown report is printed to stdout. With -p the file defaults to the
project dataset and the full report set is stored as a project run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		var p *project.Project
		if anaProject != "" {
			if p, err = openProject(anaProject); err != nil {
				return err
			}
		}
		var path, projPreset string
		switch {
		case len(args) == 1:
			path = args[0]
		case p != nil && p.Dataset != "":
			path = p.Dataset
		default:
			return errors.New("a dataset file is required (or -p with a project that has a dataset)")
		}
		if p != nil {
			projPreset = p.Preset
		}

		opt, err := anaFlags.pipelineOptions(c, projPreset)
		if err != nil {
			return err
		}
		opt.Path = path
		out, err := pipeline.Run(cmd.Context(), opt)
		if err != nil {
			return err
		}
		md := report.Markdown(out, anaFlags.markdownOptions())

		written, err := writeReports(out, md, reportTargets{
			markdown: anaOutputPath,
			csvDir:   anaCSVDir,
			xlsx:     anaXLSXPath,
		})
		for _, w := range written {
			fmt.Printf("✓ Wrote %s\n", w)
		}
		if err != nil {
			return err
		}
		if p != nil {
			run, err := recordRun(p, out, md)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Recorded run %s in project '%s' (%s)\n", shortID(run.ID), p.Name, p.ReportsDir(run.ID))
		}
		if len(written) == 0 && p == nil {
			fmt.Println(md)
		}
		if out.Filtered == 0 && out.Normalized > 0 {
			fmt.Fprintf(os.Stderr, "⚠ Warning: preset %s removed every record\n", out.Preset.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaProject, "project", "p", "", "project name (or path inside a project) to record the run in")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	analyzeCmd.Flags().StringVar(&anaCSVDir, "csv-dir", "", "optional directory to write one CSV per table")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "optional path to write an XLSX workbook with one sheet per table")
	anaFlags.register(analyzeCmd.Flags())
}
