// Command game-host lets an operator start, stop and query game servers over
// a bare HTTP interface, and powers the host down once nobody has connected
// for the configured idle window.
//
// It starts:
// - the idle watchdog (background goroutine), and
// - the single-threaded connection loop serving the dispatcher.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"game-host/internal/activitylog"
	"game-host/internal/config"
	"game-host/internal/hostable"
	"game-host/internal/power"
	"game-host/internal/registry"
	"game-host/internal/router"
	"game-host/internal/webserver"
)

func fatal(msg string, err error, attrs ...any) {
	args := make([]any, 0, 2+len(attrs))
	args = append(args, "err", err)
	args = append(args, attrs...)
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	// Set up logging first so early failures are captured consistently.
	runID := activitylog.MakeRunID()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("run_id", runID))

	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var activity *activitylog.Logger
	if cfg.ActivityLogPath != "" {
		activity, err = activitylog.New(cfg.ActivityLogPath, runID)
		if err != nil {
			fatal("open activity log failed", err, "path", cfg.ActivityLogPath)
		}
		defer func() { _ = activity.Close() }()
		slog.Info("activity log enabled", "path", cfg.ActivityLogPath)
	}

	runner := hostable.ExecRunner{Timeout: cfg.CommandTimeout}
	sessions := hostable.NewScreenInspector(runner, cfg.SessionCommand)

	reg, err := registry.Build(cfg.Servers, runner, sessions)
	if err != nil {
		fatal("registry build failed", err)
	}
	powerCtl := power.NewController(runner, cfg.ShutdownCommand, cfg.NotifyURL)

	watchdog := webserver.NewWatchdog(cfg.IdleTimeout, func(ctx context.Context) {
		res := powerCtl.Shutdown(ctx)
		status := 200
		if !res.OK {
			status = 503
		}
		activity.Log(activitylog.Record{
			Type:    activitylog.TypeIdleShutdown,
			Status:  status,
			Message: res.Message,
		})
	})
	go watchdog.Run(ctx)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		fatal("listen failed", err, "addr", cfg.Addr())
	}

	slog.Info(
		"starting game-host",
		"url", "http://"+cfg.Addr()+"/",
		"servers", reg.Paths(),
		"idle_timeout", cfg.IdleTimeout,
	)
	activity.Log(activitylog.Record{Type: activitylog.TypeStartup, Message: "listening " + cfg.Addr()})

	srv := webserver.New(router.New(reg, powerCtl, cfg.LandingPage), watchdog, webserver.Options{
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		ReadTimeout: cfg.ReadTimeout,
		Activity:    activity,
	})
	if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		fatal("connection loop stopped", err)
	}
	slog.Info("shutdown requested")
}
