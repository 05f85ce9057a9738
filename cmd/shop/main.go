// Command shop is a terminal storefront: it browses the catalog API and keeps
// a cart in local storage shared with any other shop process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamestore/internal/config"
	"gamestore/internal/logger"
	"gamestore/internal/platform/catalogapi"
	"gamestore/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "shop:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Writer:      os.Stderr,
		Format:      cfg.LogFormat,
		Environment: cfg.Env,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	medium, err := storage.Open(cfg.CartStorage, cfg.CartStoragePath, log)
	if err != nil {
		return err
	}
	defer medium.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		out:        os.Stdout,
		log:        log,
		catalog:    catalogapi.NewClient(cfg.CatalogAPIURL, "gamestore-shop", float64(cfg.CatalogAPIRPS)),
		medium:     medium,
		cartKey:    cfg.CartKey,
		minLoading: cfg.MinLoading,
	}
	return a.run(ctx, os.Args[1:])
}
