package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/PhucHuuDang/GraphQL/pkg/config"
	"github.com/PhucHuuDang/GraphQL/pkg/database"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

func main() {
	var (
		dir     = flag.String("dir", "", "optional directory with SQL migration files")
		command = flag.String("command", "up", "migration command (up, down, reset, status, version)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close(db)

	var fsys fs.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	provider, err := newProvider(db, fsys)
	if err != nil {
		log.Fatalf("Failed to create migration provider: %v", err)
	}

	if err := run(context.Background(), provider, *command); err != nil {
		log.Fatal(err)
	}
}

func newProvider(db *gorm.DB, fsys fs.FS) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	dialect := goose.DialectPostgres
	if db.Dialector.Name() == "sqlite" {
		dialect = goose.DialectSQLite3
	}

	return goose.NewProvider(dialect, sqlDB, fsys,
		goose.WithGoMigrations(goMigrations(db)...),
		goose.WithDisableGlobalRegistry(true),
	)
}

func run(ctx context.Context, provider *goose.Provider, command string) error {
	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No pending migrations")
			return nil
		}
		for _, r := range results {
			fmt.Printf("OK    up   %d (%s)\n", r.Source.Version, r.Duration)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		result, err := provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			fmt.Println("No migrations to roll back")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		fmt.Printf("OK    down %d (%s)\n", result.Source.Version, result.Duration)
		fmt.Println("Migrations rolled back successfully")
	case "reset":
		if _, err := provider.DownTo(ctx, 0); err != nil {
			return fmt.Errorf("failed to reset migrations: %w", err)
		}
		fmt.Println("All migrations rolled back")
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		for _, s := range statuses {
			applied := "-"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-8d %-8s %s\n", s.Source.Version, s.State, applied)
		}
	case "version":
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to get database version: %w", err)
		}
		fmt.Printf("Database version: %d\n", version)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}
