// Root command for the gardenctl CLI.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gardenplot/internal/garden"
	"github.com/mesh-intelligence/gardenplot/internal/logger"
	"github.com/mesh-intelligence/gardenplot/internal/spatial"
	"github.com/mesh-intelligence/gardenplot/internal/store"
)

const version = "0.1.0"

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Shared state built by PersistentPreRunE for all subcommands.
var (
	service *garden.Service
	manager *store.Manager
)

var rootCmd = &cobra.Command{
	Use:     "gardenctl",
	Short:   "Gardenctl manages the garden plot store",
	Version: version,
	Long: `Gardenctl is the operator CLI for the garden plot persistence core.
It places and looks up crops, records annotations, and manages the
store schema and reference data.`,
	PersistentPreRunE: setupService,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardownService()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.gardenplot)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.gardenplot-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(nearestCmd)
	rootCmd.AddCommand(annotateCmd)
}

// setupService loads configuration and wires the plot, store, and
// engine into a single service shared by all subcommands.
func setupService(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	cfg, ref, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cliViper.GetString(cfgKeyLogLevel),
		Format: cliViper.GetString(cfgKeyLogFormat),
	}, os.Stderr)

	manager = store.NewManager(cfg, log)
	plot := garden.NewPlot(cfg, ref.Vegetables, ref.Structures)
	adapter := store.NewAdapter(manager, log)
	engine := spatial.NewEngine(adapter, plot, log)
	service = garden.NewService(plot, adapter, engine, log)
	return nil
}

// teardownService releases the store connection pool.
func teardownService() error {
	if manager != nil {
		return manager.Close()
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gardenctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("gardenctl", version)
	},
}

// runContext is the context for store calls issued by subcommands.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
