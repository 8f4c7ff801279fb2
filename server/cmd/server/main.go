package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/responder/responder/server/internal/api"
	"github.com/responder/responder/server/internal/config"
	"github.com/responder/responder/server/internal/health"
	"github.com/responder/responder/server/internal/metrics"
	"github.com/responder/responder/server/internal/store"
	"github.com/responder/responder/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file; empty runs on defaults")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("responder starting", "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}
	level.Set(cfg.Server.Log.SlogLevel())

	dataPath := cfg.Server.Storage.EffectivePath()
	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
		"storage_path", dataPath,
		"log_level", cfg.Server.Log.Level,
		"stream_interval", cfg.Server.Stream.Interval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st := store.NewFile(dataPath)

	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				level.Set(c.Server.Log.SlogLevel())
				slog.Info("log level reloaded", "level", c.Server.Log.Level)
			})
			if err != nil {
				slog.Warn("config watch disabled", "err", err)
			}
		}()
	}

	// Health: gRPC grpc.health.v1 backed by periodic store probes.
	checker := health.NewChecker(st, cfg.Server.Health.Interval)
	go checker.Run(ctx)

	grpcSrv := health.NewServer(checker)
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port", "port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}
	go func() {
		slog.Info("gRPC health listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	// Stream hub: ticks, plus an immediate push whenever the data file changes.
	hub := ws.New(st, cfg.Server.Stream.Interval)
	go hub.Run(ctx)
	go func() {
		if err := store.Watch(ctx, dataPath, hub.Notify); err != nil {
			slog.Warn("data file watch disabled", "path", dataPath, "err", err)
		}
	}()

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTP(reg)
	handler := api.New(metrics.NewStore(reg, st), api.WithInstrumentation(httpMetrics.Instrument))

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", metrics.Handler(reg))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/", handler)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("responder shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	grpcSrv.GracefulStop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}
