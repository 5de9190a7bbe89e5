package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/efreitasn/ccasswatch/internal/handler"
	"github.com/efreitasn/ccasswatch/internal/service"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API and the daily cache warm-up" }
func (*serveCmd) Usage() string {
	return `ccasswatch serve

  Serves holdings, transactions and stock lists over HTTP. Configuration is
  read from the environment (PORT, REGISTRY_URL, CACHE, KAFKA_BROKERS, ...).
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		slog.Error("failed to start", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	defer func() {
		if err := a.close(); err != nil {
			a.logger.Error("close failed", slog.String("error", err.Error()))
		}
	}()
	logger := a.logger

	router := handler.NewRouter(a.holdingSvc, a.stockSvc, logger)

	// Start the warm-up scheduler with cancellable context.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	warmer := service.NewWarmer(a.aggregator, service.WarmerConfig{
		Stocks: a.cfg.WarmStocks,
		At:     a.cfg.WarmAt,
	}, a.window, logger)
	if err := warmer.Start(ctx); err != nil {
		logger.Error("warm-up not started", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}
	defer warmer.Stop()

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", a.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for SIGINT/SIGTERM or a server failure.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", slog.String("error", err.Error()))
		return subcommands.ExitFailure
	}

	// Graceful shutdown: stop HTTP server, cancel context (stops warm-up).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
	return subcommands.ExitSuccess
}

type healthcheckCmd struct {
	port string
}

func (*healthcheckCmd) Name() string     { return "healthcheck" }
func (*healthcheckCmd) Synopsis() string { return "check a running server's health endpoint" }
func (*healthcheckCmd) Usage() string {
	return `ccasswatch healthcheck [-port <port>]

  Exits 0 when GET /healthz on localhost answers 200, 1 otherwise.
`
}

func (c *healthcheckCmd) SetFlags(f *flag.FlagSet) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	f.StringVar(&c.port, "port", port, "Port of the running server.")
}

func (c *healthcheckCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", c.port))
	if err != nil {
		return subcommands.ExitFailure
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
