package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/reelstats-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ReelStats configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		for _, k := range cfgpkg.Keys {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Set a config value and save to disk. List values (required_columns, fill_columns, drop_columns) are comma-separated.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
