// Command liftlog-mcp serves the LiftLog MCP tools over stdio. With -server it
// reads from a running LiftLog instance; otherwise it opens the configured
// database directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/mcp"
	"github.com/meltforce/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	serverURL := flag.String("server", "", "LiftLog server URL (e.g. https://liftlog.tail1234.ts.net)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the protocol
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logging.ParseLevel(cfg.Logging.Level)}))

	opts, err := cfg.Session.Options()
	if err != nil {
		log.Error("invalid session config", "error", err)
		os.Exit(1)
	}

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("using remote data source", "server", *serverURL)
	} else {
		driver, err := storage.ParseDriver(cfg.Database.Driver)
		if err != nil {
			log.Error("invalid database driver", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), driver, cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		ds = db
		defer db.Close()
	}

	if err := server.ServeStdio(mcp.New(ds, opts, Version, log)); err != nil {
		log.Error("mcp stdio server error", "error", err)
	}
}
