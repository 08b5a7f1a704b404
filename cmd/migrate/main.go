package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/lapulperia/lapulperia-backend/pkg/config"
	"github.com/lapulperia/lapulperia-backend/pkg/db"
	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/migrate"
)

// Usage: migrate <up|down|status|version> [args]
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate <command> [args]")
	}
	command := args[0]

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "lapulperia-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx := context.Background()
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = client.Close() }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"command": command, "dir": migrate.DefaultDir})
	logg.Info(ctx, "running goose")

	if err := migrate.Run(ctx, sqlDB, migrate.DefaultDir, command, args[1:]...); err != nil {
		return err
	}

	logg.Info(ctx, "goose completed")
	return nil
}
