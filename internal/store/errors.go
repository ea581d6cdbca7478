// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by writes whose target row no longer exists.
	// Lookups signal absence with a nil record instead.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference is returned when a write names a related row that
	// does not exist (foreign key violation).
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// SQLSTATE codes mapped by mapConstraintError.
const foreignKeyViolation = "23503"

// mapConstraintError converts a PostgreSQL foreign key violation into
// ErrInvalidReference. Other errors are returned unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	}
	return err
}

// placeholders returns "$start, $start+1, ..." for n positional arguments.
func placeholders(start, n int) string {
	b := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = fmt.Appendf(b, "$%d", start+i)
	}
	return string(b)
}
