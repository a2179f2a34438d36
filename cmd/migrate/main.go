package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"marketplace-booking/internal/handler/middleware"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// Applies migrations/ with the atlas CLI. Only the DB_* settings are read.
func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migration files")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	var cfg struct {
		DB  config.DBConfig
		Log config.LogConfig
	}
	if err := loadConfig(&cfg); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := migrate(ctx, logger, cfg.DB, *dir, *atlasBin); err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}

func migrate(ctx context.Context, logger *slog.Logger, db config.DBConfig, dir, atlasBin string) error {
	workdir, err := atlasexec.NewWorkingDir(
		atlasexec.WithMigrations(os.DirFS(dir)),
	)
	if err != nil {
		return errs.Wrap(err, "failed to prepare atlas working directory")
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), atlasBin)
	if err != nil {
		return errs.Wrap(err, "failed to initialize atlas client")
	}

	// The sum file is regenerated so plain SQL files can be added without
	// running atlas locally.
	if err := client.MigrateHash(ctx, &atlasexec.MigrateHashParams{}); err != nil {
		return errs.Wrap(err, "failed to hash migration directory")
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL: db.BuildDSN(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}

	logger.Info("Migrations applied",
		"applied", len(res.Applied),
		"current", res.Current,
		"target", res.Target)
	return nil
}
