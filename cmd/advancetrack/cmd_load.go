package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"advancetrack/internal/config"
	"advancetrack/internal/engine"
)

var debugFilePath string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the catalog and player progress once, print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		e, err := engine.Load(cfg)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		e.RefreshProfilesAsync(context.Background())

		if debugFilePath != "" {
			if err := e.DebugSink.WriteFile(debugFilePath); err != nil {
				logger.Sugar().Warnf("failed to write debug file: %v", err)
			}
		}

		printSummary(e)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&debugFilePath, "debug-file", "", "Optional path to write per-advancement requirement-extraction debug JSON")
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#101F38"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
)

func printSummary(e *engine.Engine) {
	e.State.RLock()
	defer e.State.RUnlock()

	fmt.Println(headingStyle.Render(fmt.Sprintf("%s (%s)", e.State.World.Name, e.State.World.Version)))
	row := func(label string, value interface{}) {
		fmt.Printf("  %s %s\n", labelStyle.Render(label+":"), valueStyle.Render(fmt.Sprint(value)))
	}
	row("Advancements", len(e.State.Catalog.Advancements))
	row("Categories", len(e.State.Catalog.Categories))
	row("Classes", len(e.State.Catalog.Classes))
	row("Players", len(e.State.Players))
	row("Snapshot ETag", e.Snapshots.Get().ETag())
}
