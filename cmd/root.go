package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cfgpkg "github.com/KaramelBytes/reelstats-cli/internal/config"
	"github.com/KaramelBytes/reelstats-cli/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger for pipeline diagnostics; always on stderr.
	appLog = logger.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "reelstats",
	Short: "ReelStats CLI: clean movie metadata and summarize it into tables",
	Long: `ReelStats loads movie metadata exports (CSV, TSV or XLSX), normalizes them,
drops outliers with a named filter preset and prints summary tables such as
runtime by year, top genres by revenue and rating counts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Runs before every command, so tests that swap HOME see fresh config.
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.reelstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text | json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
	} else {
		cfg = c
	}
	appLog = newLogger()
}

func newLogger() *logger.Logger {
	level, format := "info", logger.FormatText
	if cfg != nil {
		level, format = cfg.LogLevel, cfg.LogFormat
	}
	if logFormat != "" {
		format = logFormat
	}
	lvl := logger.ParseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}
	return logger.New(logger.Config{Format: format, Level: lvl, AddSource: debug})
}

// currentConfig returns the loaded config, retrying the load so that a broken
// config file surfaces as an error instead of a warning.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
