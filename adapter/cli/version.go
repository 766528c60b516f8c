package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionJSON {
			return WriteJSON(out, map[string]string{
				"version": Version,
				"commit":  Commit,
				"built":   BuildDate,
				"go":      runtime.Version(),
			})
		}
		fmt.Fprintf(out, "tracker %s (%s, %s)\n", Version, Commit, runtime.Version())
		fmt.Fprintf(out, "  built: %s\n", BuildDate)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(versionCmd)
}
