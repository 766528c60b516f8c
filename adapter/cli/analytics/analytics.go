package analytics

import (
	"github.com/spf13/cobra"
)

// Cmd is the analytics command group
var Cmd = &cobra.Command{
	Use:   "analytics",
	Short: "Workload reports",
	Long:  `Print the busy-employee and important-task reports as JSON.`,
}

func init() {
	Cmd.AddCommand(busyCmd)
	Cmd.AddCommand(importantCmd)
}
