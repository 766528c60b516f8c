package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/internal/tracker/application/commands"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load employees, tasks and dependencies from a YAML file",
	Long: `Load a YAML fixture in a single transaction. Records refer to each
other by key:

  employees:
    - {key: ann, full_name: Ann Archer, position: Developer, email: ann@example.com}
  tasks:
    - {key: build, title: Build, status: IN_PROGRESS, due_date: "2026-02-01", assignee: ann}
    - {key: release, title: Release, due_date: "2026-03-01"}
  dependencies:
    - {parent: release, child: build}

Examples:
  tracker seed --file fixtures/demo.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		fixture, err := commands.LoadFixture(seedFile)
		if err != nil {
			return err
		}
		res, err := app.SeedHandler.Handle(cmd.Context(), commands.SeedCommand{Fixture: fixture})
		if err != nil {
			return err
		}
		app.FlushEvents(cmd.Context(), cmd.ErrOrStderr())
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees, %d tasks, %d dependencies\n",
			len(res.Employees), len(res.Tasks), res.Dependencies)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture file (YAML)")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}
