// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the catalog API server.
// It loads configuration, connects to PostgreSQL, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"shopcatalog/internal/config"
	"shopcatalog/internal/database"
	"shopcatalog/internal/handlers"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/router"
	"shopcatalog/internal/store"
)

func main() {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	// Load configuration from the environment and an optional .env file.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Structured logger: JSON in production, text in development.
	if cfg.IsDev() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetLevel(cfg.Level())

	log.WithFields(logrus.Fields{
		"env":  cfg.Env,
		"addr": cfg.Addr(),
	}).Info("configuration loaded")

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Seed development data (no-op if categories already exist).
	if cfg.IsDev() {
		n, err := database.Seed(db)
		if err != nil {
			log.WithError(err).Fatal("failed to seed database")
		}
		if n > 0 {
			log.WithField("categories", n).Info("seeded development data")
		}
	}

	categoryStore := store.NewCategoryStore(db)
	productStore := store.NewProductStore(db)
	reviewStore := store.NewReviewStore(db)

	r := router.New(router.Deps{
		Log:        log,
		Metrics:    metrics.New(),
		DB:         db,
		Products:   handlers.NewProducts(productStore, categoryStore),
		Categories: handlers.NewCategories(categoryStore),
		Reviews:    handlers.NewReviews(reviewStore),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		log.WithField("addr", cfg.Addr()).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return
	}

	log.Info("server stopped gracefully")
}
