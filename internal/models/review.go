// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Review is a star rating with free text left against a product.
type Review struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	ProductID int64  `json:"product_id"`
	Stars     int    `json:"stars"`
}

// Star bounds accepted for a review.
const (
	MinStars = 1
	MaxStars = 5
)

// RatingSummary is the aggregate over every stored review. AvgRating is nil
// when no reviews exist.
type RatingSummary struct {
	AvgRating *float64 `json:"avg_rating"`
}
