package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	"github.com/felixgeelhaar/tracker/adapter/cli/analytics"
	"github.com/felixgeelhaar/tracker/adapter/cli/task"
	"github.com/felixgeelhaar/tracker/adapter/cli/token"
	"github.com/felixgeelhaar/tracker/internal/app"
	"github.com/felixgeelhaar/tracker/pkg/config"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancelled on SIGINT/SIGTERM; serve shuts down gracefully on it
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", observability.ErrorKey, err)
		return 1
	}

	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Format = observability.LogFormat(cfg.LogFormat)
	logCfg.ServiceVersion = cli.Version
	logCfg.LevelVar = new(slog.LevelVar)
	logger := observability.NewLogger(logCfg)
	slog.SetDefault(logger)
	cli.SetLogger(logger, logCfg.LevelVar)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", observability.ErrorKey, err)
			return 1
		}
		// In development, allow version and help without a database
		logger.Warn("failed to initialize container, running in limited mode", observability.ErrorKey, err)
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	cli.AddCommand(analytics.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(token.Cmd)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
