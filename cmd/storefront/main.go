package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirpyerre/storefront/internal/console"
	"github.com/sirpyerre/storefront/internal/core/service"
	"github.com/sirpyerre/storefront/internal/infrastructure/store/flatfile"
	"github.com/sirpyerre/storefront/internal/pkg/config"
	"github.com/sirpyerre/storefront/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := flatfile.New(flatfile.Config{
		Dir:              cfg.Data.Dir,
		UsersFile:        cfg.Data.UsersFile,
		ProductsFile:     cfg.Data.ProductsFile,
		TransactionsFile: cfg.Data.TransactionsFile,
	}, log)

	svc := service.NewStorefront(store, log)
	if err := svc.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("started with defaults for unreadable resources")
	}

	done := make(chan error, 1)
	go func() {
		done <- console.New(svc, os.Stdin, os.Stdout, cfg.MaxInvalidAttempts, log).Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("console stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svc.Save(saveCtx); err != nil {
		log.Error().Err(err).Msg("final save failed")
		logger.Close()
		os.Exit(1)
	}
	log.Info().Msg("data saved, bye")
}
