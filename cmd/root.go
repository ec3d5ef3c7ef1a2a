package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MehrXloop/calsync/internal/config"
	"github.com/MehrXloop/calsync/internal/engine"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/msauth"
)

var (
	configPath string
	debugMode  bool
)

// rootCmd represents the base command for the calsync application
var rootCmd = &cobra.Command{
	Use:   "calsync",
	Short: "Keeps a local window of your Outlook calendar in sync",
	Long: `calsync materializes a month of your Microsoft Outlook calendar into a
local store and lets you create, update and cancel events against it.

It can run as:
  - A standalone CLI tool (default)
  - An HTTP server exposing the calendar snapshot and mutations`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calsync version %s\n" .Version}}`)

	// If no subcommand is provided, show the current month by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "view")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newCancelCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildEngine wires the configured Graph client and the sync engine for
// the CLI commands. The serve command does its own wiring because it
// additionally carries metrics and audit logging.
func buildEngine(opts ...engine.Option) (*engine.Engine, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, config.Config{}, err
	}

	logger := newLogger()

	clientOpts := []graph.Option{
		graph.WithTimeout(cfg.HTTPTimeout),
		graph.WithLogger(logger),
	}
	if cfg.GraphBaseURL != "" {
		clientOpts = append(clientOpts, graph.WithBaseURL(cfg.GraphBaseURL))
	}

	client, err := graph.NewClient(msauth.NewFileProvider(), clientOpts...)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to create Graph client: %w", err)
	}

	engOpts := append([]engine.Option{
		engine.WithStrategy(engine.ReconciliationStrategy(cfg.Reconciliation)),
		engine.WithLogger(logger),
	}, opts...)

	return engine.New(client, graph.NewNormalizer(loc), engOpts...), cfg, nil
}
