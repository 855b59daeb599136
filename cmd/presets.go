package cmd

import (
	"fmt"

	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List filter presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		def := filter.DefaultPreset
		if cfg != nil {
			def = cfg.DefaultPreset
		}
		for _, p := range filter.Presets() {
			mark := " "
			if p.Name == def {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, p.String())
		}
		return nil
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a preset, with config overrides applied, as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			p   filter.Preset
			err error
		)
		if cfg != nil {
			p, err = cfg.Preset(args[0])
		} else {
			p, err = filter.Lookup(args[0])
		}
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Print(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsShowCmd)
}
