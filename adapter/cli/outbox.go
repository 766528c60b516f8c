package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var outboxRetention time.Duration

var outboxCmd = &cobra.Command{
	Use:   "outbox",
	Short: "Inspect and maintain the event outbox",
}

var outboxFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Publish pending events once",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.Relay == nil {
			return ErrNotInitialized
		}
		n, err := app.Relay.ProcessOnce(cmd.Context())
		if err != nil {
			return err
		}
		stats := app.Relay.GetStats()
		fmt.Fprintf(cmd.OutOrStdout(), "published %d events (%d failed, %d dead-lettered)\n",
			n, stats.FailedCount, stats.DeadCount)
		return nil
	},
}

var outboxPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete published events older than the retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.Relay == nil {
			return ErrNotInitialized
		}
		deleted, err := app.Relay.Cleanup(cmd.Context(), outboxRetention)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d published events\n", deleted)
		return nil
	},
}

func init() {
	outboxPruneCmd.Flags().DurationVar(&outboxRetention, "older-than", 7*24*time.Hour, "retention for published events")
	outboxCmd.AddCommand(outboxFlushCmd, outboxPruneCmd)
	rootCmd.AddCommand(outboxCmd)
}
