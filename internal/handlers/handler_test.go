// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against an in-memory catalog so no database is needed.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"shopcatalog/internal/models"
	"shopcatalog/internal/store"
)

// memCatalog holds the rows shared by the fake repositories. It mirrors the
// store's cascade rules: deleting a product drops its reviews and deleting a
// category unlinks it from products.
type memCatalog struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]models.Category
	products   map[int64]models.Product
	reviews    map[int64]models.Review
	failWith   error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		categories: map[int64]models.Category{},
		products:   map[int64]models.Product{},
		reviews:    map[int64]models.Review{},
	}
}

func (m *memCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](rows map[int64]V) []int64 {
	keys := make([]int64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type memCategories struct{ *memCatalog }

func (m memCategories) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Category{}
	for _, id := range sortedKeys(m.categories) {
		out = append(out, m.categories[id])
	}
	return out, nil
}

func (m memCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := models.Category{ID: m.id(), Name: c.Name}
	m.categories[created.ID] = created
	return &created, nil
}

func (m memCategories) Update(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	m.categories[c.ID] = *c
	return nil
}

func (m memCategories) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	for pid, p := range m.products {
		p.CategoryIDs = slices.DeleteFunc(slices.Clone(p.CategoryIDs), func(c int64) bool { return c == id })
		m.products[pid] = p
	}
	return nil
}

func (m memCategories) MissingIDs(_ context.Context, ids []int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := m.categories[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type memProducts struct{ *memCatalog }

func (m memProducts) List(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Product{}
	for _, id := range sortedKeys(m.products) {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m memProducts) FindByID(_ context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m memProducts) links(ids []int64) ([]int64, error) {
	out := []int64{}
	for _, id := range ids {
		if _, ok := m.categories[id]; !ok {
			return nil, fmt.Errorf("%w: product_categories_category_id_fkey", store.ErrInvalidReference)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (m memProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	links, err := m.links(p.CategoryIDs)
	if err != nil {
		return nil, err
	}
	created := *p
	created.ID = m.id()
	created.CategoryIDs = links
	m.products[created.ID] = created
	return &created, nil
}

func (m memProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	links, err := m.links(p.CategoryIDs)
	if err != nil {
		return err
	}
	updated := *p
	updated.CategoryIDs = links
	m.products[p.ID] = updated
	return nil
}

func (m memProducts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	for rid, rv := range m.reviews {
		if rv.ProductID == id {
			delete(m.reviews, rid)
		}
	}
	return nil
}

type memReviews struct{ *memCatalog }

func (m memReviews) List(_ context.Context) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Review{}
	for _, id := range sortedKeys(m.reviews) {
		out = append(out, m.reviews[id])
	}
	return out, nil
}

func (m memReviews) FindByID(_ context.Context, id int64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	rv, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	return &rv, nil
}

func (m memReviews) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[r.ProductID]; !ok {
		return nil, fmt.Errorf("%w: reviews_product_id_fkey", store.ErrInvalidReference)
	}
	created := *r
	created.ID = m.id()
	m.reviews[created.ID] = created
	return &created, nil
}

func (m memReviews) Update(_ context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[r.ID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := m.products[r.ProductID]; !ok {
		return fmt.Errorf("%w: reviews_product_id_fkey", store.ErrInvalidReference)
	}
	m.reviews[r.ID] = *r
	return nil
}

func (m memReviews) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reviews, id)
	return nil
}

func (m memReviews) AverageStars(_ context.Context) (*float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if len(m.reviews) == 0 {
		return nil, nil
	}
	var sum int
	for _, rv := range m.reviews {
		sum += rv.Stars
	}
	avg := float64(sum) / float64(len(m.reviews))
	return &avg, nil
}

var errStoreDown = errors.New("connection refused")

// testEnv holds the handler groups wired to one in-memory catalog.
type testEnv struct {
	Catalog    *memCatalog
	Products   *Products
	Categories *Categories
	Reviews    *Reviews
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat := newMemCatalog()
	return &testEnv{
		Catalog:    cat,
		Products:   NewProducts(memProducts{cat}, memCategories{cat}),
		Categories: NewCategories(memCategories{cat}),
		Reviews:    NewReviews(memReviews{cat}),
	}
}

// seedCategory stores a category directly and returns its id.
func (e *testEnv) seedCategory(t *testing.T, name string) int64 {
	t.Helper()
	c, err := memCategories{e.Catalog}.Create(context.Background(), &models.Category{Name: name})
	require.NoError(t, err)
	return c.ID
}

// seedProduct stores a product directly and returns its id.
func (e *testEnv) seedProduct(t *testing.T, title string, categoryIDs ...int64) int64 {
	t.Helper()
	p, err := memProducts{e.Catalog}.Create(context.Background(), &models.Product{
		Title:       title,
		Description: title + " description",
		Price:       9.99,
		CategoryIDs: categoryIDs,
	})
	require.NoError(t, err)
	return p.ID
}

// seedReview stores a review directly and returns its id.
func (e *testEnv) seedReview(t *testing.T, productID int64, stars int) int64 {
	t.Helper()
	rv, err := memReviews{e.Catalog}.Create(context.Background(), &models.Review{
		Text:      fmt.Sprintf("%d stars", stars),
		ProductID: productID,
		Stars:     stars,
	})
	require.NoError(t, err)
	return rv.ID
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request carrying body as its JSON payload.
func jsonRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// serve runs h against req and returns the recorder.
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// decode unmarshals the recorded body into a value of type T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// errorBody is the shape of every 400 and 404 response.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
