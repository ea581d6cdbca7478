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

const (
	reviewNotFound    = "Review not found!"
	reviewInvalidData = "Invalid data"
)

// Reviews groups the review collection, review detail and rating handlers.
type Reviews struct {
	reviews ReviewRepository
}

// NewReviews creates the review handler group.
func NewReviews(reviews ReviewRepository) *Reviews {
	return &Reviews{reviews: reviews}
}

// List returns every review.
func (h *Reviews) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.reviews.List(r.Context())
	if err != nil {
		serverError(w, r, "list reviews failed", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ProductReviews serves the product-scoped review listing. It is not
// filtered by product and returns the same list as List.
func (h *Reviews) ProductReviews(w http.ResponseWriter, r *http.Request) {
	h.List(w, r)
}

// AverageRating returns the mean star rating over all reviews, null when
// there are none.
func (h *Reviews) AverageRating(w http.ResponseWriter, r *http.Request) {
	avg, err := h.reviews.AverageStars(r.Context())
	if err != nil {
		serverError(w, r, "average rating failed", err)
		return
	}
	writeJSON(w, http.StatusOK, models.RatingSummary{AvgRating: avg})
}

// reviewCreated is the body of a successful create.
type reviewCreated struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Create validates {text, product_id, stars} and inserts the review.
func (h *Reviews) Create(w http.ResponseWriter, r *http.Request) {
	var in reviewInput
	errs := bind(w, r, &in)
	if errs == nil {
		created, err := h.reviews.Create(r.Context(), in.toModel(0))
		switch {
		case errors.Is(err, store.ErrInvalidReference):
			errs = unknownProduct(*in.ProductID)
		case err != nil:
			serverError(w, r, "create review failed", err)
			return
		default:
			middleware.LogFromCtx(r.Context()).WithFields(logrus.Fields{
				"review_id":  created.ID,
				"product_id": created.ProductID,
			}).Info("review created")
			writeJSON(w, http.StatusCreated, reviewCreated{ID: created.ID, Text: created.Text})
			return
		}
	}

	writeJSON(w, http.StatusBadRequest, validationResponse{Message: reviewInvalidData, Errors: errs})
}

// Get returns one review in the create/update payload shape.
func (h *Reviews) Get(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.find(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, reviewInput{
		Text:      &rv.Text,
		ProductID: &rv.ProductID,
		Stars:     &rv.Stars,
	})
}

// Update overwrites text, product_id and stars. Success answers 201;
// invalid payloads answer 400 with field errors.
func (h *Reviews) Update(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.find(w, r)
	if !ok {
		return
	}

	var in reviewInput
	errs := bind(w, r, &in)
	if errs == nil {
		err := h.reviews.Update(r.Context(), in.toModel(rv.ID))
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeMessage(w, http.StatusNotFound, reviewNotFound)
			return
		case errors.Is(err, store.ErrInvalidReference):
			errs = unknownProduct(*in.ProductID)
		case err != nil:
			serverError(w, r, "update review failed", err)
			return
		default:
			middleware.LogFromCtx(r.Context()).WithField("review_id", rv.ID).Info("review updated")
			writeMessage(w, http.StatusCreated, "Review updated successfully")
			return
		}
	}

	writeJSON(w, http.StatusBadRequest, validationResponse{Message: reviewInvalidData, Errors: errs})
}

// Delete removes the review.
func (h *Reviews) Delete(w http.ResponseWriter, r *http.Request) {
	rv, ok := h.find(w, r)
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), rv.ID); err != nil {
		serverError(w, r, "delete review failed", err)
		return
	}
	writeDeleted(w, r, "Review deleted")
}

func (h *Reviews) find(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	id, ok := pathID(r, "review_id")
	if !ok {
		writeMessage(w, http.StatusNotFound, reviewNotFound)
		return nil, false
	}

	rv, err := h.reviews.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, "find review failed", err)
		return nil, false
	}
	if rv == nil {
		writeMessage(w, http.StatusNotFound, reviewNotFound)
		return nil, false
	}
	return rv, true
}

func unknownProduct(id int64) FieldErrors {
	return FieldErrors{"product_id": {fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id))}}
}
