// Package token mints and revokes Redis-backed API tokens.
package token

import "github.com/spf13/cobra"

// Cmd groups the token subcommands.
var Cmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
}

func init() {
	Cmd.AddCommand(issueCmd, revokeCmd)
}
