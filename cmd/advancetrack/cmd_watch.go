package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"advancetrack/internal/config"
	"advancetrack/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load the catalog, then watch the save for player progress updates until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		e, err := engine.Load(cfg)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		printSummary(e)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		e.RefreshProfilesAsync(ctx)

		sub, unsubscribe := e.Broadcast.Subscribe()
		defer unsubscribe()

		if err := e.StartWatching(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer e.StopWatching()

		fmt.Println(headingStyle.Render("Watching for advancement updates. Press Ctrl+C to stop."))
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-sub:
				fmt.Printf("  %s player=%s advancements=%d\n",
					labelStyle.Render(ev.Kind), ev.UUID, len(ev.UpdatedProgress))
			}
		}
	},
}
