// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the catalog API.
// Handlers are grouped by resource (products, categories, reviews) and
// receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/models"
)

// CategoryRepository is the category persistence used by handlers.
// *store.CategoryStore satisfies it.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CategoryChecker reports which category ids do not exist.
// *store.CategoryStore satisfies it.
type CategoryChecker interface {
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// ProductRepository is the product persistence used by handlers.
// *store.ProductStore satisfies it.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository is the review persistence used by handlers.
// *store.ReviewStore satisfies it.
type ReviewRepository interface {
	List(ctx context.Context) ([]models.Review, error)
	FindByID(ctx context.Context, id int64) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) (*models.Review, error)
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, id int64) error
	AverageStars(ctx context.Context) (*float64, error)
}

// messageResponse is the body of every status-only reply.
type messageResponse struct {
	Message string `json:"message"`
}

// validationResponse is the body of a 400 that reports field errors.
type validationResponse struct {
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes {"message": msg} with the given status code.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeDeleted answers a successful DELETE. net/http drops bodies on 204,
// so the message only reaches the log.
func writeDeleted(w http.ResponseWriter, r *http.Request, msg string) {
	middleware.LogFromCtx(r.Context()).Info(msg)
	w.WriteHeader(http.StatusNoContent)
}

// serverError logs err and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	middleware.LogFromCtx(r.Context()).WithError(err).Error(msg)
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}

// pathID parses a positive integer URL parameter. ok is false for anything
// else, which callers treat as a missing record.
func pathID(r *http.Request, key string) (id int64, ok bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// MethodNotAllowed answers methods a resource does not support.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"detail": `Method "` + r.Method + `" not allowed.`,
	})
}

// NotFound answers paths that match no route.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}
