package main

import (
	"context"
	stderrors "errors"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/linekit/bootstrap"
	"github.com/kbukum/linekit/definition"
	"github.com/kbukum/linekit/logger"
	"github.com/kbukum/linekit/observability"
	"github.com/kbukum/linekit/server"
	"github.com/kbukum/linekit/unix"
	"github.com/kbukum/linekit/version"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the commands and named pipelines over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	metrics, shutdown, err := observability.Setup(ctx, a.cfg.Observability, a.cfg.Name, version.Version, a.cfg.Environment)
	if err != nil {
		return err
	}

	defs, check := a.loadDefinitions()

	srv := server.New(a.cfg.Server, a.log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(a.cfg.Name, check)
	srv.RegisterHandler(server.NewHandler(unix.DefaultRegistry,
		server.WithDefinitions(defs),
		server.WithEnv(a.cfg.EnvContext()),
		server.WithMetrics(metrics),
	))

	app := bootstrap.New(a.cfg.Name, version.Version,
		bootstrap.WithLogger(a.log),
		bootstrap.WithGracefulTimeout(a.cfg.Server.ShutdownTimeout+5*time.Second),
	)
	app.OnStart(srv.Start)
	app.OnStop(srv.Stop, shutdown)
	return app.Run(ctx)
}

// loadDefinitions loads the definitions file. A missing file serves no named
// pipelines; an invalid one does the same and reports the service degraded.
func (a *app) loadDefinitions() (*definition.File, observability.HealthCheck) {
	path := a.cfg.Pipelines
	defs, err := definition.Load(path)

	health := observability.Health{
		Name:    "definitions",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"file": path},
	}
	switch {
	case err == nil:
		health.Details["pipelines"] = strconv.Itoa(len(defs.Pipelines))
		a.log.Info("Pipeline definitions loaded", map[string]any{"file": path, "pipelines": len(defs.Pipelines)})
	case stderrors.Is(err, os.ErrNotExist):
		defs = nil
		health.Details["pipelines"] = "0"
		a.log.Info("No pipeline definitions file", map[string]any{"file": path})
	default:
		defs = nil
		health.Status = observability.HealthStatusDegraded
		health.Message = err.Error()
		a.log.Warn("Invalid pipeline definitions", logger.ErrorFields("load_definitions", err))
	}
	return defs, func(context.Context) observability.Health { return health }
}
