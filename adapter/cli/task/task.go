// Package task holds the write-side task commands.
package task

import "github.com/spf13/cobra"

// Cmd groups the task subcommands.
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Change tasks in the tracker store",
}

func init() {
	Cmd.AddCommand(statusCmd)
}
