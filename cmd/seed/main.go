package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ferremas/config"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"
	logs "ferremas/internal/infra/log"
	"ferremas/internal/infra/persistence/postgres"
	"ferremas/internal/infra/persistence/seed"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Supported subcommands:
// - migrate: create or update the schema
// - seed:    migrate, then load the default catalog and branches

type deps struct {
	db     *gorm.DB
	tm     repository.TransactionManager
	stores repository.StoreRepository
	logger *slog.Logger
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	skipMigrate := seedCmd.Bool("skip-migrate", false, "Do not migrate the schema before seeding")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var run func(ctx context.Context, d *deps) error
	switch os.Args[1] {
	case "migrate":
		_ = migrateCmd.Parse(os.Args[2:])
		run = migrate
	case "seed":
		_ = seedCmd.Parse(os.Args[2:])
		run = func(ctx context.Context, d *deps) error {
			if !*skipMigrate {
				if err := migrate(ctx, d); err != nil {
					return err
				}
			}

			return load(ctx, d)
		}
	default:
		printUsage()
		os.Exit(1)
	}

	if err := withDeps(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// withDeps starts the database module, runs fn and stops it again.
func withDeps(ctx context.Context, fn func(ctx context.Context, d *deps) error) error {
	d := &deps{}
	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
			postgres.NewTransactionManager,
			postgres.NewStoreRepository,
		),
		fx.Populate(&d.db, &d.tm, &d.stores, &d.logger),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "failed to build dependencies")
	}

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start dependencies")
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			d.logger.Error("Failed to stop dependencies", slog.Any("error", err))
		}
	}()

	return fn(ctx, d)
}

func migrate(ctx context.Context, d *deps) error {
	if err := postgres.Migrate(ctx, d.db); err != nil {
		return err
	}
	d.logger.Info("Schema migrated")

	return nil
}

func load(ctx context.Context, d *deps) error {
	result, err := seed.Run(ctx, d.tm, d.stores, d.logger)
	if err != nil {
		return err
	}

	d.logger.Info("Seed finished",
		slog.Int("categories", result.Categories),
		slog.Int("subcategories", result.SubCategories),
		slog.Int("products", result.Products),
		slog.Int("stores", result.Stores),
	)

	return nil
}

func printUsage() {
	fmt.Println("Usage: seed <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate   Create or update the database schema")
	fmt.Println("  seed      Migrate and load the default catalog and branches")
	fmt.Println()
	fmt.Println("Options for seed:")
	fmt.Println("  -skip-migrate   Do not migrate the schema before seeding")
}
