// Package main is the entry point for the MyRide Explorer API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jackrosenthal/myride-explorer/internal/config"
	"github.com/jackrosenthal/myride-explorer/internal/handler"
	"github.com/jackrosenthal/myride-explorer/internal/justride"
	"github.com/jackrosenthal/myride-explorer/internal/metrics"
	"github.com/jackrosenthal/myride-explorer/internal/middleware"
	"github.com/jackrosenthal/myride-explorer/internal/relay"
	"github.com/jackrosenthal/myride-explorer/internal/session"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Upstream & timezone ---------------------------------------------
	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		slog.Error("invalid upstream URL", "error", err)
		os.Exit(1)
	}
	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		slog.Error("invalid display timezone", "error", err)
		os.Exit(1)
	}

	// --- Metrics ----------------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// --- Core pieces ------------------------------------------------------
	store := session.NewStore(cfg.SessionTTL)
	defer store.Stop()

	client := justride.New(cfg.UpstreamURL, cfg.AgencyID, nil, loc)
	relayHandler := relay.New(upstream, nil, logger, collector)

	loginLimiter := middleware.NewLoginRateLimiter(cfg.LoginRatePerMin, cfg.LoginRatePerMin)
	defer loginLimiter.Stop()

	cookieSecure := upstream.Scheme == "https"
	srvHandlers := handler.NewServer(client, store, collector, loc, cookieSecure)

	// --- Router -----------------------------------------------------------
	r := handler.NewRouter(srvHandlers, handler.RouterDeps{
		Logger:            logger,
		Relay:             relayHandler,
		MetricsHandler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Sessions:          store,
		LoginLimiter:      loginLimiter,
		MaxLoginBodyBytes: cfg.MaxLoginBodyBytes,
		CORSOrigins:       cfg.CORSOrigins,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout is generous because relay responses stream from upstream.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "upstream", upstream.String(), "agency", cfg.AgencyID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
