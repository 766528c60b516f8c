package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tracker/adapter/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		cfg := api.DefaultServerConfig()
		if app.Config != nil {
			cfg.Addr = app.Config.HTTPAddr
			cfg.ReadTimeout = app.Config.HTTPReadTimeout
			cfg.WriteTimeout = app.Config.HTTPWriteTimeout
			cfg.IdleTimeout = app.Config.HTTPIdleTimeout
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		server := api.NewServer(cfg, app.ServerDeps)

		if app.Relay != nil {
			app.Relay.Start(cmd.Context())
			defer app.Relay.Stop()
		}

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		timeout := api.DefaultShutdownTimeout
		if app.Config != nil && app.Config.HTTPShutdownTimeout > 0 {
			timeout = app.Config.HTTPShutdownTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
