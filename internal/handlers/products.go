// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"shopcatalog/internal/middleware"
	"shopcatalog/internal/models"
	"shopcatalog/internal/store"
)

const productNotFound = "Product not found!"

// Products groups the product collection and detail handlers.
type Products struct {
	products   ProductRepository
	categories CategoryChecker
}

// NewProducts creates the product handler group. categories is consulted to
// reject links to categories that do not exist.
func NewProducts(products ProductRepository, categories CategoryChecker) *Products {
	return &Products{products: products, categories: categories}
}

// List returns every product with its category ids.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.List(r.Context())
	if err != nil {
		serverError(w, r, "list products failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// productCreated is the body of a successful create.
type productCreated struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Create validates the payload, inserts the product and links its
// categories.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	errs, err := h.bindProduct(w, r, &in)
	if err != nil {
		serverError(w, r, "check product categories failed", err)
		return
	}
	if errs == nil {
		created, err := h.products.Create(r.Context(), in.toModel(0))
		switch {
		case errors.Is(err, store.ErrInvalidReference):
			// A category vanished between the check and the insert.
			errs = FieldErrors{"category": {"One or more categories do not exist."}}
		case err != nil:
			serverError(w, r, "create product failed", err)
			return
		default:
			middleware.LogFromCtx(r.Context()).WithFields(logrus.Fields{
				"product_id": created.ID,
				"categories": len(created.CategoryIDs),
			}).Info("product created")
			writeJSON(w, http.StatusCreated, productCreated{ID: created.ID, Title: created.Title})
			return
		}
	}

	writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Request failed", Errors: errs})
}

// productDetail is the create/update payload echoed back. categories repeats
// category under the name the list view uses.
type productDetail struct {
	productInput
	Categories []int64 `json:"categories"`
}

// Get returns one product in the create/update payload shape.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, productDetail{
		productInput: productInput{
			Title:       &p.Title,
			Description: &p.Description,
			Price:       &p.Price,
			Category:    p.CategoryIDs,
		},
		Categories: p.CategoryIDs,
	})
}

// Update replaces title, description, price and the whole category set.
func (h *Products) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	var in productInput
	errs, err := h.bindProduct(w, r, &in)
	if err != nil {
		serverError(w, r, "check product categories failed", err)
		return
	}
	if errs == nil {
		err = h.products.Update(r.Context(), in.toModel(p.ID))
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeMessage(w, http.StatusNotFound, productNotFound)
			return
		case errors.Is(err, store.ErrInvalidReference):
			errs = FieldErrors{"category": {"One or more categories do not exist."}}
		case err != nil:
			serverError(w, r, "update product failed", err)
			return
		default:
			middleware.LogFromCtx(r.Context()).WithField("product_id", p.ID).Info("product updated")
			writeMessage(w, http.StatusOK, "Product updated successfully")
			return
		}
	}

	writeJSON(w, http.StatusBadRequest, validationResponse{Message: "Invalid data", Errors: errs})
}

// Delete removes the product. Its reviews and category links go with it.
func (h *Products) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), p.ID); err != nil {
		serverError(w, r, "delete product failed", err)
		return
	}
	writeDeleted(w, r, "Product deleted")
}

// find resolves {product_id}. It writes the 404 or 500 itself and returns
// ok=false in that case.
func (h *Products) find(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, ok := pathID(r, "product_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, productNotFound)
		return nil, false
	}

	p, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find product failed", err)
		return nil, false
	}
	if p == nil {
		writeMessage(w, http.StatusNotFound, productNotFound)
		return nil, false
	}
	return p, true
}

// bindProduct runs the Validation Layer and then checks that every
// referenced category exists. err is set only when the lookup itself fails.
func (h *Products) bindProduct(w http.ResponseWriter, r *http.Request, in *productInput) (FieldErrors, error) {
	errs := bind(w, r, in)
	if errs.Has("category") || in.Category == nil {
		return errs, nil
	}

	missing, err := h.categories.MissingIDs(r.Context(), in.Category)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return errs, nil
	}

	if errs == nil {
		errs = FieldErrors{}
	}
	for _, id := range missing {
		errs.Add("category", fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id)))
	}
	return errs, nil
}
