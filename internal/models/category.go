// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog records persisted by the store package.
package models

// Category is a flat product grouping. Products reference categories through
// a many-to-many link table.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
