// Command advancetrack loads a Minecraft save's advancement catalog and
// live player progress, and can watch it for updates. Entry point and
// command registration, shaped after the teacher's cmd/nerd/main.go
// (rootCmd + PersistentPreRunE zap init + subcommands registered in
// init()), scaled down to this system's two operations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"advancetrack/internal/obslog"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "advancetrack",
	Short: "Track Minecraft advancement progress from a save folder",
	Long: `advancetrack loads a Minecraft save's advancement catalog, player
stats, and live progress into a single JSON snapshot, and can watch the
save for changes and stream updates as players make progress.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		obslog.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "advancetrack.yaml", "Path to the YAML config file")

	rootCmd.AddCommand(loadCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
