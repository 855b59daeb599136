package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reelstats-cli/internal/dataset"
	apperrors "github.com/KaramelBytes/reelstats-cli/internal/errors"
	"github.com/KaramelBytes/reelstats-cli/internal/filter"
	"github.com/KaramelBytes/reelstats-cli/internal/validation"
)

// DirName is the per-user config directory under $HOME.
const DirName = ".reelstats"

// Global configuration structure.
type Global struct {
	DefaultPreset string `mapstructure:"default_preset" yaml:"default_preset" validate:"required"`
	TopN          int    `mapstructure:"top_n" yaml:"top_n" validate:"gte=1,lte=1000"`
	OthersMode    string `mapstructure:"others_mode" yaml:"others_mode" validate:"oneof=sum mean"`
	// Delimiter overrides extension-based detection for delimited text.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"lte=1"`

	RequiredColumns []string `mapstructure:"required_columns" yaml:"required_columns"`
	FillColumns     []string `mapstructure:"fill_columns" yaml:"fill_columns"`
	DropColumns     []string `mapstructure:"drop_columns" yaml:"drop_columns"`

	// Preset overrides; zero keeps the preset's own value.
	MinRuntime float64 `mapstructure:"min_runtime" yaml:"min_runtime" validate:"gte=0"`
	MinYear    int     `mapstructure:"min_year" yaml:"min_year" validate:"gte=0"`
	MaxYear    int     `mapstructure:"max_year" yaml:"max_year" validate:"gte=0"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	ProjectsDir string `mapstructure:"projects_dir" yaml:"projects_dir"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"default_preset", "top_n", "others_mode", "delimiter",
	"required_columns", "fill_columns", "drop_columns",
	"min_runtime", "min_year", "max_year",
	"log_level", "log_format", "projects_dir", "output_dir",
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.reelstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, DirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REELSTATS")
	v.AutomaticEnv()

	v.SetDefault("default_preset", filter.DefaultPreset)
	v.SetDefault("top_n", 10)
	v.SetDefault("others_mode", "sum")
	v.SetDefault("delimiter", "")
	v.SetDefault("required_columns", dataset.DefaultRequiredColumns)
	v.SetDefault("fill_columns", dataset.DefaultFillColumns)
	v.SetDefault("drop_columns", dataset.DefaultDropColumns)
	v.SetDefault("min_runtime", 0)
	v.SetDefault("min_year", 0)
	v.SetDefault("max_year", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, DirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, apperrors.Config("unmarshal config").WithCause(err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	if c.ProjectsDir == "" {
		c.ProjectsDir = filepath.Join(home, DirName, "projects")
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks field constraints.
func (c *Global) Validate() error {
	return validation.New().Validate(c)
}

// Preset resolves name (or DefaultPreset when empty) and applies the
// configured overrides.
func (c *Global) Preset(name string) (filter.Preset, error) {
	if name == "" {
		name = c.DefaultPreset
	}
	p, err := filter.Lookup(name)
	if err != nil {
		return filter.Preset{}, err
	}
	if c.MinRuntime > 0 {
		p.MinRuntime = c.MinRuntime
	}
	if c.MinYear > 0 {
		p.MinYear = c.MinYear
	}
	if c.MaxYear > 0 {
		p.MaxYear = c.MaxYear
	}
	if err := p.Validate(); err != nil {
		return filter.Preset{}, err
	}
	return p, nil
}

// LoadOptions builds dataset load options from the configuration.
func (c *Global) LoadOptions() dataset.LoadOptions {
	opt := dataset.LoadOptions{
		Required: c.RequiredColumns,
		Drop:     c.DropColumns,
	}
	if r := []rune(c.Delimiter); len(r) == 1 {
		opt.Delimiter = r[0]
	}
	return opt
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "default_preset":
		return c.DefaultPreset, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "others_mode":
		return c.OthersMode, nil
	case "delimiter":
		return c.Delimiter, nil
	case "required_columns":
		return strings.Join(c.RequiredColumns, ","), nil
	case "fill_columns":
		return strings.Join(c.FillColumns, ","), nil
	case "drop_columns":
		return strings.Join(c.DropColumns, ","), nil
	case "min_runtime":
		return strconv.FormatFloat(c.MinRuntime, 'f', -1, 64), nil
	case "min_year":
		return strconv.Itoa(c.MinYear), nil
	case "max_year":
		return strconv.Itoa(c.MaxYear), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "projects_dir":
		return c.ProjectsDir, nil
	case "output_dir":
		return c.OutputDir, nil
	}
	return "", apperrors.Config(fmt.Sprintf("unknown key: %s", key))
}

// Set parses val into key and validates the result. On error c is unchanged.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "default_preset":
		if _, err := filter.Lookup(val); err != nil {
			return err
		}
		next.DefaultPreset = strings.ToLower(val)
	case "top_n":
		i, err := strconv.Atoi(val)
		if err != nil {
			return apperrors.Config(fmt.Sprintf("invalid int for top_n: %v", val))
		}
		next.TopN = i
	case "others_mode":
		next.OthersMode = strings.ToLower(val)
	case "delimiter":
		next.Delimiter = val
	case "required_columns":
		next.RequiredColumns = splitList(val)
	case "fill_columns":
		next.FillColumns = splitList(val)
	case "drop_columns":
		next.DropColumns = splitList(val)
	case "min_runtime":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return apperrors.Config(fmt.Sprintf("invalid float for min_runtime: %v", val))
		}
		next.MinRuntime = f
	case "min_year", "max_year":
		i, err := strconv.Atoi(val)
		if err != nil {
			return apperrors.Config(fmt.Sprintf("invalid int for %s: %v", key, val))
		}
		if key == "min_year" {
			next.MinYear = i
		} else {
			next.MaxYear = i
		}
	case "log_level":
		next.LogLevel = strings.ToLower(val)
	case "log_format":
		next.LogFormat = strings.ToLower(val)
	case "projects_dir":
		next.ProjectsDir = val
	case "output_dir":
		next.OutputDir = val
	default:
		return apperrors.Config(fmt.Sprintf("unknown key: %s", key))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
