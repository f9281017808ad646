package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"fastexp/internal/config"
	"fastexp/internal/observability"
	"fastexp/internal/server"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load(os.Getenv("MODEXP_CONFIG"))
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.Telemetry.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	serviceName := cfg.Telemetry.ServiceName

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx, serviceName)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx, serviceName)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Log export
	if cfg.Telemetry.LogsEnabled {
		logShutdown, err := observability.InitLogging(ctx, serviceName)
		if err != nil {
			panic(err)
		}
		defer logShutdown(ctx)
	}

	// Router
	calc, err := newCalculatorHandler(cfg)
	if err != nil {
		panic(err)
	}
	router := server.NewRouter(calc)

	srv, timeout, err := newServer(cfg, router)
	if err != nil {
		panic(err)
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Server.Addr),
			zap.Uint("limit_bits", cfg.Calculator.LimitBits),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv, timeout)
}

func waitForShutdown(srv *http.Server, timeout time.Duration) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}
