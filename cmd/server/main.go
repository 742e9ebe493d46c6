// Package main is the CLI entry point for the Domainscope server.
package main

import (
	"Domainscope/internal/api/middleware"
	"Domainscope/internal/api/routes"
	"Domainscope/internal/config"
	"Domainscope/internal/core/authority"
	"Domainscope/internal/core/traffic"
	postgresRepo "Domainscope/internal/db/postgres"
	"Domainscope/internal/metrics"
	"Domainscope/internal/rapidapi"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app := &cli.Command{
		Name:    "domainscope",
		Usage:   "Cached DA/PA and traffic lookups backed by RapidAPI",
		Version: version,
		Flags:   serveFlags(),
		Action:  runServer,
		Commands: []*cli.Command{
			serveCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			Sources: cli.EnvVars("DOMAINSCOPE_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "listen-address",
			Usage: "HTTP listen address (e.g. :8000), overrides LISTEN_ADDRESS",
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server (default)",
		Flags:  serveFlags(),
		Action: runServer,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Printf("domainscope %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}

func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if v := cmd.String("listen-address"); v != "" {
		cfg.Server.ListenAddress = v
	}

	slog.SetDefault(newLogger(cfg.Log, os.Stderr))
	slog.Info("starting domainscope",
		"version", version,
		"commit", commit,
		"listen_address", cfg.Server.ListenAddress,
		"database", cfg.Redacted().Database.DSN(),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Printf("Failed to close database: %v", closeErr)
		}
	}()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Connected to database")

	if err := postgresRepo.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Metrics registry with process-level collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "domainscope"),
	)
	appMetrics := metrics.New(registry)

	// Upstream clients
	mozClient := rapidapi.NewMozClient(cfg.Moz.Host, cfg.Moz.Key,
		rapidapi.WithBaseURL(cfg.Moz.BaseURL),
		rapidapi.WithTimeout(cfg.Moz.Timeout()),
		rapidapi.WithMetrics(appMetrics),
	)
	similarWebClient := rapidapi.NewSimilarWebClient(cfg.SimilarWeb.Host, cfg.SimilarWeb.Key,
		rapidapi.WithBaseURL(cfg.SimilarWeb.BaseURL),
		rapidapi.WithTimeout(cfg.SimilarWeb.Timeout()),
		rapidapi.WithMetrics(appMetrics),
	)

	// Initialize repositories and services
	authorityRepo := postgresRepo.NewAuthorityRepository(db)
	trafficRepo := postgresRepo.NewTrafficRepository(db)

	authorityService := authority.NewService(authorityRepo, mozClient, authority.WithMetrics(appMetrics))
	trafficService := traffic.NewService(trafficRepo, similarWebClient, traffic.WithMetrics(appMetrics))

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	routes.RegisterOpsRoutes(r, registry)

	r.Group(func(r chi.Router) {
		if cfg.Server.RateLimitRequests > 0 {
			var opts []middleware.RateLimiterOption
			if cfg.Server.TrustProxyHeaders {
				opts = append(opts, middleware.WithTrustedProxyHeaders())
			}
			rateLimiter := middleware.NewRateLimiter(ctx, cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow(), opts...)
			r.Use(rateLimiter.Middleware)
		}

		routes.RegisterAuthorityRoutes(r, authorityService)
		routes.RegisterTrafficRoutes(r, trafficService)
	})

	srv := &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
