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

// ProductStore manages products and their category links.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

const productColumns = `id, title, description, price`

// scanProduct scans a row into a Product struct. CategoryIDs is left empty.
func scanProduct(scanner interface{ Scan(...any) error }) (*models.Product, error) {
	p := models.Product{CategoryIDs: []int64{}}
	if err := scanner.Scan(&p.ID, &p.Title, &p.Description, &p.Price); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all products ordered by id, each with its category ids.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := []models.Product{}
	index := make(map[int64]int)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		index[p.ID] = len(items)
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	links, err := s.db.QueryContext(ctx,
		`SELECT product_id, category_id FROM product_categories ORDER BY product_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("list product categories: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var productID, categoryID int64
		if err := links.Scan(&productID, &categoryID); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		// Links for products inserted after the first query are skipped.
		if i, ok := index[productID]; ok {
			items[i].CategoryIDs = append(items[i].CategoryIDs, categoryID)
		}
	}
	return items, links.Err()
}

// FindByID retrieves a product and its category ids. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id FROM product_categories WHERE product_id = $1 ORDER BY category_id`, id)
	if err != nil {
		return nil, fmt.Errorf("find product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID int64
		if err := rows.Scan(&categoryID); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		p.CategoryIDs = append(p.CategoryIDs, categoryID)
	}
	return p, rows.Err()
}

// Create inserts a product and links it to its categories in one
// transaction. The returned product carries the assigned ID.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO products (title, description, price)
		VALUES ($1, $2, $3)
		RETURNING `+productColumns,
		p.Title, p.Description, p.Price,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	ids, err := linkCategories(ctx, tx, created.ID, p.CategoryIDs)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	created.CategoryIDs = ids

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit product: %w", err)
	}
	return created, nil
}

// Update overwrites title, description and price and replaces the whole
// category set, all in one transaction.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET title = $1, description = $2, price = $3
		WHERE id = $4`,
		p.Title, p.Description, p.Price, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if err := requireAffected(res, "update product"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	if _, err := linkCategories(ctx, tx, p.ID, p.CategoryIDs); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit product: %w", err)
	}
	return nil
}

// Delete removes a product by ID. Its category links and reviews go with it.
func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// linkCategories inserts one link row per distinct category id and returns
// the distinct ids in the order given.
func linkCategories(ctx context.Context, tx *sql.Tx, productID int64, categoryIDs []int64) ([]int64, error) {
	linked := []int64{}
	seen := make(map[int64]bool, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		if seen[categoryID] {
			continue
		}
		seen[categoryID] = true

		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			productID, categoryID,
		)
		if err != nil {
			return nil, fmt.Errorf("link category %d: %w", categoryID, mapConstraintError(err))
		}
		linked = append(linked, categoryID)
	}
	return linked, nil
}
