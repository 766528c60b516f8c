package token

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/cli"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Delete an API token from Redis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.TokenIssuer == nil {
			return errors.New("token revocation requires REDIS_URL")
		}
		if err := app.TokenIssuer.Revoke(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "token revoked")
		return nil
	},
}
