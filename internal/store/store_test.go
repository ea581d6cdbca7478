// store_test.go provides shared helpers for store tests. SQL-level tests run
// against go-sqlmock; integration tests are skipped if PostgreSQL is not
// available.
package store

import (
	"database/sql"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"

	"shopcatalog/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "shopcatalog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "shopcatalog")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable&connect_timeout=2"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// mockDB returns a sqlmock-backed *sql.DB and verifies every expectation
// was met when the test finishes.
func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// q quotes a SQL fragment for sqlmock's regexp matcher.
func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

// cleanProducts removes test products by id. Links and reviews cascade.
func cleanProducts(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM products WHERE id = $1", id)
	}
}

// cleanCategories removes test categories by id.
func cleanCategories(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM categories WHERE id = $1", id)
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		start, n int
		want     string
	}{
		{1, 0, ""},
		{1, 1, "$1"},
		{1, 3, "$1, $2, $3"},
		{4, 2, "$4, $5"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.start, tt.n); got != tt.want {
			t.Errorf("placeholders(%d, %d) = %q, want %q", tt.start, tt.n, got, tt.want)
		}
	}
}
