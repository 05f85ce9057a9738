package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gamestore/internal/config"
	"gamestore/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	log := logger.New(logger.Config{
		Format:      os.Getenv("LOG_FORMAT"),
		Environment: os.Getenv("APP_ENV"),
		Level:       logger.ParseLevel(os.Getenv("LOG_LEVEL")),
	})

	dir := migrationsDir()

	if *command == "create" {
		if *name == "" {
			log.Error("name is required for 'create' command")
			os.Exit(1)
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Error("failed to create migration", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("failed to set dialect", "error", err)
		os.Exit(1)
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, dir); err != nil {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, db, dir); err != nil {
			log.Error("failed to rollback migrations", "error", err)
			os.Exit(1)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, db, dir); err != nil {
			log.Error("failed to check migration status", "error", err)
			os.Exit(1)
		}
	default:
		log.Error("unknown command, use: up, down, status, create", "command", *command)
		os.Exit(1)
	}
}
