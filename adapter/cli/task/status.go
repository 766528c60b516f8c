package task

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	"github.com/felixgeelhaar/tracker/internal/tracker/application/commands"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id> <status>",
	Short: "Move a task to NEW, IN_PROGRESS, REVIEW or DONE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		task, err := app.ChangeTaskStatusHandler.Handle(cmd.Context(), commands.ChangeTaskStatusCommand{
			TaskID: id,
			Status: args[1],
		})
		if err != nil {
			return err
		}
		app.FlushEvents(cmd.Context(), cmd.ErrOrStderr())
		fmt.Fprintf(cmd.OutOrStdout(), "task %d is %s\n", task.ID(), task.Status())
		return nil
	},
}
