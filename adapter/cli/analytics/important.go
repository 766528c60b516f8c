package analytics

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
)

var plain bool

var importantCmd = &cobra.Command{
	Use:   "important",
	Short: "List blocked new tasks with a suggested assignee",
	Long: `List NEW tasks that depend on at least one task in progress or in
review, ordered by due date. Each task carries the employee suggested to pick
it up.

Examples:
  tracker analytics important
  tracker analytics important --plain   # without suggestions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if plain {
			tasks, err := app.ImportantListHandler.Handle(cmd.Context(), queries.ImportantTasksQuery{})
			if err != nil {
				return err
			}
			return cli.WriteJSON(cmd.OutOrStdout(), tasks)
		}
		recs, err := app.ImportantTasksHandler.Handle(cmd.Context(), queries.ImportantTasksQuery{})
		if err != nil {
			return err
		}
		return cli.WriteJSON(cmd.OutOrStdout(), recs)
	},
}

func init() {
	importantCmd.Flags().BoolVar(&plain, "plain", false, "omit assignee suggestions")
}
