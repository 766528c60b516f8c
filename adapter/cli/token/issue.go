package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	identityApp "github.com/felixgeelhaar/tracker/internal/identity/application"
	"github.com/felixgeelhaar/tracker/internal/identity/domain"
)

var (
	role string
	name string
	ttl  time.Duration
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Mint an API token stored in Redis",
	Long: `Mint an opaque bearer token for the given role. The token is printed
once; Redis keeps only its digest.

Examples:
  tracker token issue --role manager --name "Max Manager"
  tracker token issue --role admin --name ops --ttl 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if app.TokenIssuer == nil {
			return errors.New("token issuing requires REDIS_URL")
		}
		r, err := domain.ParseRole(role)
		if err != nil {
			return err
		}
		token, err := app.TokenIssuer.Handle(cmd.Context(), identityApp.IssueTokenCommand{
			Name: name,
			Role: r,
			TTL:  ttl,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	issueCmd.Flags().StringVar(&role, "role", "", "Admin, Manager or Employee")
	issueCmd.Flags().StringVar(&name, "name", "", "principal name")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "expiry (0 never expires)")
	_ = issueCmd.MarkFlagRequired("role")
	_ = issueCmd.MarkFlagRequired("name")
}
