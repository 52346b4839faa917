package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/logging"
	"github.com/meltforce/liftlog/internal/seed"
	"github.com/meltforce/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedPath := flag.String("seed", "", "exercise catalog JSON to import")
	alphaPath := flag.String("alpha", "", "Alpha Progression CSV export to import")
	flag.Parse()

	if *seedPath == "" && *alphaPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import -config config.yaml [-seed catalog.json] [-alpha export.csv]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Stdout: true})
	defer logCloser.Close()

	driver, err := storage.ParseDriver(cfg.Database.Driver)
	if err != nil {
		log.Error("invalid database driver", "error", err)
		os.Exit(1)
	}
	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(driver, dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	// Connect database
	db, err := storage.New(ctx, driver, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if *seedPath != "" {
		if err := importSeed(ctx, db, *seedPath, log); err != nil {
			log.Error("seed import failed", "error", err)
			os.Exit(1)
		}
	}
	if *alphaPath != "" {
		result, err := importAlpha(ctx, db, *alphaPath, log)
		if err != nil {
			log.Error("alpha import failed", "error", err)
			os.Exit(1)
		}
		printStats(log, result)
	}
	log.Info("import complete")
}

func importSeed(ctx context.Context, db *storage.DB, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := seed.New(db, path, log).Seed(ctx, f)
	if n == 0 {
		return fmt.Errorf("no exercises imported from %s", path)
	}
	log.Info("seed import stats", "exercises_inserted", n)
	return nil
}

func importAlpha(ctx context.Context, db *storage.DB, path string, log *slog.Logger) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return alpha.NewProvider(db, log).Ingest(ctx, f)
}

func printStats(log *slog.Logger, r *ingest.Result) {
	log.Info("alpha import stats",
		"sessions_received", r.SessionsReceived,
		"sets_received", r.SetsReceived,
		"sets_inserted", r.SetsInserted,
		"warmups_skipped", r.WarmupsSkipped,
		"exercises_created", r.ExercisesCreated,
	)
}
