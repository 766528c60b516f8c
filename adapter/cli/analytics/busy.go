package analytics

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
)

var busyCmd = &cobra.Command{
	Use:   "busy",
	Short: "List employees with active tasks, busiest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		busy, err := app.BusyEmployeesHandler.Handle(cmd.Context(), queries.BusyEmployeesQuery{})
		if err != nil {
			return err
		}
		return cli.WriteJSON(cmd.OutOrStdout(), busy)
	},
}
