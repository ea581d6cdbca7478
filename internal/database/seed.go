// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
)

// seedCategories are inserted into an empty categories table in development.
var seedCategories = []string{"Stationery", "Books", "Electronics"}

// Seed populates the database with initial development data and returns the
// number of categories inserted. It is a no-op when categories already exist.
func Seed(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return 0, fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, name := range seedCategories {
		if _, err := tx.Exec(`INSERT INTO categories (name) VALUES ($1)`, name); err != nil {
			return 0, fmt.Errorf("seed insert category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed commit: %w", err)
	}
	return len(seedCategories), nil
}
