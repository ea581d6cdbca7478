// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopcatalog/internal/models"
)

// ReviewStore manages product reviews.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore returns a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewColumns = `id, text, product_id, stars`

func scanReview(scanner interface{ Scan(...any) error }) (*models.Review, error) {
	var r models.Review
	if err := scanner.Scan(&r.ID, &r.Text, &r.ProductID, &r.Stars); err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns every review ordered by id, regardless of product.
func (s *ReviewStore) List(ctx context.Context) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// FindByID retrieves a review by ID. Returns nil if not found.
func (s *ReviewStore) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find review by id: %w", err)
	}
	return r, nil
}

// Create inserts a review. An unknown product id yields ErrInvalidReference.
func (s *ReviewStore) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (text, product_id, stars)
		VALUES ($1, $2, $3)
		RETURNING `+reviewColumns,
		r.Text, r.ProductID, r.Stars,
	)
	created, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", mapConstraintError(err))
	}
	return created, nil
}

// Update overwrites text, product and stars of an existing review.
func (s *ReviewStore) Update(ctx context.Context, r *models.Review) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reviews SET text = $1, product_id = $2, stars = $3
		WHERE id = $4`,
		r.Text, r.ProductID, r.Stars, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", mapConstraintError(err))
	}
	return requireAffected(res, "update review")
}

// Delete removes a review by ID.
func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// AverageStars returns the mean star rating over all reviews, or nil when
// there are none.
func (s *ReviewStore) AverageStars(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(stars)::float8 FROM reviews`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average stars: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
