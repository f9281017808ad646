package main

import (
	"context"
	"net/http"
	"time"

	"fastexp/internal/calculator"
	"fastexp/internal/config"
	"fastexp/internal/observability"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments.
func initMetrics(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, serviceName)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// newCalculatorHandler builds the calculator handler from cfg.
func newCalculatorHandler(cfg *config.Config) (*calculator.Handler, error) {
	v, err := cfg.Validator()
	if err != nil {
		return nil, err
	}
	return calculator.NewHandler(v, cfg.Codec()), nil
}

// newServer builds the HTTP server for cfg and returns it with its shutdown
// timeout.
func newServer(cfg *config.Config, handler http.Handler) (*http.Server, time.Duration, error) {
	timeout, err := cfg.ShutdownTimeout()
	if err != nil {
		return nil, 0, err
	}
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}, timeout, nil
}
