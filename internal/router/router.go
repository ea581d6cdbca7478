// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Catalog resources live under /api/v1; health and metrics
// sit at the root.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"shopcatalog/internal/handlers"
	"shopcatalog/internal/metrics"
	"shopcatalog/internal/middleware"
)

// Pinger reports whether the database answers. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps is everything the route table needs.
type Deps struct {
	Log        *logrus.Logger
	Metrics    *metrics.Metrics
	DB         Pinger
	Products   *handlers.Products
	Categories *handlers.Categories
	Reviews    *handlers.Reviews
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.SecureHeaders)
	r.Use(d.Metrics.Instrument)
	r.Use(chimw.StripSlashes)

	// Set before Route so subrouters inherit them.
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", healthHandler(d.DB))
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", d.Products.List)
			r.Post("/", d.Products.Create)

			// Static segments win over {product_id} in chi's tree.
			r.Get("/reviews", d.Reviews.ProductReviews)
			r.Get("/average-rating", d.Reviews.AverageRating)

			r.Get("/{product_id}", d.Products.Get)
			r.Put("/{product_id}", d.Products.Update)
			r.Delete("/{product_id}", d.Products.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Get("/{category_id}", d.Categories.Get)
			r.Put("/{category_id}", d.Categories.Update)
			r.Delete("/{category_id}", d.Categories.Delete)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", d.Reviews.List)
			r.Post("/", d.Reviews.Create)
			r.Get("/{review_id}", d.Reviews.Get)
			r.Put("/{review_id}", d.Reviews.Update)
			r.Delete("/{review_id}", d.Reviews.Delete)
		})
	})

	return r
}

// healthHandler returns a JSON health check response. It answers 503 when
// the database does not respond within two seconds.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			middleware.LogFromCtx(r.Context()).WithError(err).Warn("health check: database unreachable")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
