package cmd

import (
	"fmt"

	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/spf13/cobra"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

var projectSetDatasetCmd = &cobra.Command{
	Use:   "set-dataset <file>",
	Short: "Set the dataset a project analyzes by default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		if err := p.SetDataset(args[0]); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Set project dataset for %s: %s\n", p.Name, p.Dataset)
		return nil
	},
}

var projectSetPresetCmd = &cobra.Command{
	Use:   "set-preset <preset>",
	Short: "Set or clear a project's default filter preset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		if pmClear {
			p.SetPreset("")
		} else {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("preset is required unless --clear is set")
			}
			if _, err := filter.Lookup(args[0]); err != nil {
				return err
			}
			p.SetPreset(args[0])
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Printf("✓ Cleared project preset for %s\n", p.Name)
		} else {
			fmt.Printf("✓ Set project preset for %s: %s\n", p.Name, p.Preset)
		}
		return nil
	},
}

var projectShowRunCmd = &cobra.Command{
	Use:   "show-run [run-id]",
	Short: "Show a recorded run (latest when no id is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		r := p.LatestRun()
		if len(args) == 1 {
			if r, err = p.FindRun(args[0]); err != nil {
				return err
			}
		}
		if r == nil {
			fmt.Println("(no runs)")
			return nil
		}
		fmt.Printf("Run: %s\n", r.ID)
		fmt.Printf("Source: %s\n", r.Source)
		fmt.Printf("Preset: %s\n", r.Preset)
		fmt.Printf("Rows: %d (normalized %d, after filter %d)\n", r.RowsRead, r.Records, r.Filtered)
		fmt.Printf("Tables: %d, warnings: %d\n", r.Tables, r.Warnings)
		fmt.Printf("Reports (%s):\n", p.ReportsDir(r.ID))
		for _, rep := range r.Reports {
			fmt.Printf("- %s\n", rep)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectSetDatasetCmd, projectSetPresetCmd, projectShowRunCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectSetPresetCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the project's preset override")
}
