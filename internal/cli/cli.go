// Package cli implements the tanklab command-line interface.
//
// This package provides commands for analyzing pressure vessel designs,
// estimating burst reliability, managing the design catalog, and serving the
// HTTP API. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - analyze: Run a stress analysis on a design file
//   - reliability: Run a Monte Carlo burst reliability estimate
//   - designs: Validate and manage stored designs
//   - serve: Start the HTTP API server
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/proaptus/tanklab/internal/config"
	"github.com/proaptus/tanklab/pkg/analysis"
	"github.com/proaptus/tanklab/pkg/buildinfo"
	"github.com/proaptus/tanklab/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tanklab",
		Short:        "Tanklab analyzes composite hydrogen pressure vessels",
		Long:         `Tanklab is an analysis engine for Type-IV composite overwrapped pressure vessels. It computes stress fields, generates finite element meshes, evaluates per-ply failure indices, and estimates burst reliability via Monte Carlo simulation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML configuration file")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.reliabilityCommand())
	root.AddCommand(c.designsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads configuration from the --config flag and the environment.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates an analysis runner from the engine configuration.
func (c *CLI) newRunner(cfg config.EngineConfig) *analysis.Runner {
	return analysis.NewRunner(analysis.Config{
		AllowableMPa: cfg.AllowableMPa,
		StrengthMPa:  cfg.StrengthMPa,
		StrengthCOV:  cfg.StrengthCOV,
		StressCOV:    cfg.StressCOV,
		Slices:       cfg.Slices,
		BurstRatio:   cfg.BurstRatio,
	}, c.Logger)
}

// openStore creates the design store selected by the configuration.
func (c *CLI) openStore(cmd *cobra.Command, cfg config.StoreConfig) (store.Store, error) {
	return store.Open(cmd.Context(), store.Config{
		Backend:  cfg.Backend,
		Dir:      cfg.Dir,
		Addr:     cfg.RedisAddr,
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
}
