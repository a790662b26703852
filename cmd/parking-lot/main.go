package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/server"
)

func main() {
	cfg := config.Load()

	mode := flag.String("mode", cfg.Mode, "Mode to run: cli, server, or both")
	port := flag.String("port", cfg.Port, "Port for HTTP server")
	layoutFile := flag.String("layout", cfg.LayoutFile, "YAML layout file (default: built-in sample lot)")
	flag.Parse()

	cfg.Mode = *mode
	cfg.Port = *port
	cfg.LayoutFile = *layoutFile

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parking-lot: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	switch cfg.Mode {
	case "cli", "server", "both":
	default:
		return fmt.Errorf("invalid mode %q, must be cli, server, or both", cfg.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := newTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer shutdownTelemetry(telemetry)

	// The shell owns stdout in cli mode.
	logOut := os.Stdout
	if cfg.Mode != "server" {
		logOut = os.Stderr
	}
	logging.InitWithWriter(logOut, cfg.OTel.ServiceName, cfg.Environment, cfg.LogLevel)

	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	service, err := parking.NewService(layout, telemetry, parking.NewActivityLog(cfg.ActivityLogSize), cfg.ParkingOptions()...)
	if err != nil {
		return err
	}
	logging.Info(ctx, "parking lot ready",
		"mode", cfg.Mode,
		"entry_points", layout.EntryPoints,
		"slots", len(layout.Slots),
	)

	if cfg.Mode == "cli" {
		runCLI(ctx, service, telemetry)
		return nil
	}

	// The server subscribes to lot events, so it is built before the shell starts.
	srv := server.NewServer(cfg.Port, cfg.OTel.ServiceName, service)
	if cfg.Mode == "server" {
		return runServer(ctx, srv, nil)
	}

	cliDone := make(chan struct{})
	go func() {
		runCLI(ctx, service, telemetry)
		close(cliDone)
	}()
	return runServer(ctx, srv, cliDone)
}

func newTelemetry(ctx context.Context, cfg *config.Config) (*parking.TelemetryProvider, error) {
	if cfg.OTel.Disabled {
		return parking.NewLocalTelemetryProvider(cfg.OTel.ServiceName, nil, nil), nil
	}
	return parking.NewTelemetryProvider(ctx, cfg.Telemetry())
}

// runCLI returns when stdin is exhausted or ctx is cancelled; a pending stdin
// read is abandoned on cancellation.
func runCLI(ctx context.Context, service *parking.Service, telemetry *parking.TelemetryProvider) {
	shell := parking.NewInstrumentedShell(service, telemetry, os.Stdin, os.Stdout)

	done := make(chan struct{})
	go func() {
		shell.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

// runServer serves HTTP until ctx is cancelled or, when done is non-nil, until
// done is closed.
func runServer(ctx context.Context, srv *server.Server, done <-chan struct{}) error {
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(hubCtx)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info(context.Background(), "received shutdown signal")
	case <-done:
		logging.Info(context.Background(), "CLI exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func shutdownTelemetry(telemetry *parking.TelemetryProvider) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "error shutting down telemetry", "error", err)
	}
}
