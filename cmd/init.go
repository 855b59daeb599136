package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/reelstats-cli/internal/config"
	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/KaramelBytes/reelstats-cli/internal/project"
	"github.com/KaramelBytes/reelstats-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
	initDataset     string
	initPreset      string
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a new ReelStats project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if utils.Slug(name) == "" {
			return fmt.Errorf("invalid project name %q", name)
		}
		if initPreset != "" {
			if _, err := filter.Lookup(initPreset); err != nil {
				return err
			}
		}
		root, err := defaultProjectsDir()
		if err != nil {
			return err
		}
		projDir := filepath.Join(root, name)
		// Refuse to overwrite an existing project.
		if info, err := os.Stat(projDir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(projDir, utils.ProjectFile)); err == nil {
				return fmt.Errorf("project already exists at %s", projDir)
			}
			entries, err := os.ReadDir(projDir)
			if err != nil {
				return fmt.Errorf("inspect project directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize project", projDir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat project directory: %w", err)
		}

		p := project.NewProject(name, initDescription, projDir)
		if initDataset != "" {
			if err := p.SetDataset(initDataset); err != nil {
				return err
			}
		}
		if initPreset != "" {
			p.SetPreset(initPreset)
		}
		if err := utils.EnsureProjectDir(projDir); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Project initialized: %s\n", projDir)
		return nil
	},
}

func defaultProjectsDir() (string, error) {
	dir := ""
	if cfg != nil && cfg.ProjectsDir != "" {
		d, err := utils.ExpandHome(cfg.ProjectsDir)
		if err != nil {
			return "", err
		}
		dir = d
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, cfgpkg.DirName, "projects")
	}
	if err := utils.EnsureProjectDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveProjectDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("project name is required")
	}
	root, err := defaultProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
	initCmd.Flags().StringVar(&initDataset, "dataset", "", "dataset file analyzed by default")
	initCmd.Flags().StringVar(&initPreset, "preset", "", "default filter preset for this project")
}
