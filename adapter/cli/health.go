package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the configured backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		health := app.Health.GetOverallHealth(cmd.Context())
		if err := WriteJSON(cmd.OutOrStdout(), health); err != nil {
			return err
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("service is %s", health.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
