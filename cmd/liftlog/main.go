package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/health"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/metrics"
	"github.com/meltforce/liftlog/internal/seed"
	apiserver "github.com/meltforce/liftlog/internal/server"
	"github.com/meltforce/liftlog/internal/storage"
	"github.com/meltforce/liftlog/internal/workout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, logCloser := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Stdout: cfg.Logging.Stdout,
	})
	log.Info("LiftLog starting", "version", Version)

	sessionOpts, err := cfg.Session.Options()
	if err != nil {
		log.Error("invalid session config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	driver, err := storage.ParseDriver(cfg.Database.Driver)
	if err != nil {
		log.Error("invalid database driver", "error", err)
		os.Exit(1)
	}
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(driver, dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "driver", driver)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, driver, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	log.Info("database connected")

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewManager("liftlog", "server", reg)

	// Health export
	var exporter health.Exporter = health.NoopExporter{}
	if cfg.Health.Enabled {
		exporter = health.NewHTTPExporter(cfg.Health.Endpoint, cfg.Health.Token, cfg.Health.Timeout)
		if err := exporter.Authorize(ctx); err != nil {
			log.Warn("health export authorization failed", "error", err)
		}
	}
	syncer := health.NewSyncer(exporter, cfg.Health.Timeout, log)
	syncer.OnResult = m.HealthExportResult

	// Seed catalog
	seeder := seed.New(db, cfg.Seed.File, log)
	seeder.OnSeeded = m.Seeded
	if cfg.Seed.OnStartup {
		if n := seeder.SeedIfEmpty(ctx); n > 0 {
			log.Info("exercise catalog seeded", "exercises", n)
		}
	}

	svc := workout.New(db, syncer, sessionOpts, log)
	svc.OnSetsLogged = m.SetsLogged
	alphaProvider := alpha.NewProvider(db, log)

	// Create server
	srv := apiserver.New(db, svc, alphaProvider, seeder, m, cfg.Auth.APIKey, log)
	srv.Mount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv.Mount("/mcp", server.NewStreamableHTTPServer(mcp.New(db, sessionOpts, Version, log)))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// pending health exports finish before the store goes away
	syncer.Close()

	var closeErr error
	if tsServer != nil {
		closeErr = multierr.Append(closeErr, tsServer.Close())
	}
	closeErr = multierr.Append(closeErr, db.Close())
	if closeErr != nil {
		log.Error("close error", "error", closeErr)
	}
	log.Info("server stopped")
	_ = logCloser.Close()
}
