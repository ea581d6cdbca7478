// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/models"
	"shopcatalog/internal/store"
)

const (
	categoryNotFound    = "Category not found!"
	categoryInvalidData = "Invalid data"
)

// Categories groups the category collection and detail handlers.
// Validation failures here carry no field detail.
type Categories struct {
	categories CategoryRepository
}

// NewCategories creates the category handler group.
func NewCategories(categories CategoryRepository) *Categories {
	return &Categories{categories: categories}
}

// List returns every category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List(r.Context())
	if err != nil {
		serverError(w, r, "list categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Create validates {name} and inserts the category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs := bind(w, r, &in); errs != nil {
		writeMessage(w, http.StatusBadRequest, categoryInvalidData)
		return
	}

	created, err := h.categories.Create(r.Context(), &models.Category{Name: *in.Name})
	if err != nil {
		serverError(w, r, "create category failed", err)
		return
	}

	middleware.LogFromCtx(r.Context()).WithField("category_id", created.ID).Info("category created")
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update renames the category. Success answers 201, which existing clients
// depend on.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}

	var in categoryInput
	if errs := bind(w, r, &in); errs != nil {
		writeMessage(w, http.StatusBadRequest, categoryInvalidData)
		return
	}

	c.Name = *in.Name
	err := h.categories.Update(r.Context(), c)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, categoryNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "update category failed", err)
		return
	}

	middleware.LogFromCtx(r.Context()).WithField("category_id", c.ID).Info("category updated")
	writeMessage(w, http.StatusCreated, "Category updated")
}

// Delete removes the category. Products keep existing and lose the link.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.find(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), c.ID); err != nil {
		serverError(w, r, "delete category failed", err)
		return
	}
	writeDeleted(w, r, "Category deleted")
}

func (h *Categories) find(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, ok := pathID(r, "category_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, categoryNotFound)
		return nil, false
	}

	c, err := h.categories.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find category failed", err)
		return nil, false
	}
	if c == nil {
		writeMessage(w, http.StatusNotFound, categoryNotFound)
		return nil, false
	}
	return c, true
}
