package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockdesk/internal/domain"
	"stockdesk/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	c := *category
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	m.categories[c.ID] = &c
	return &c, nil
}

func (m *mockCategoryRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, id uuid.UUID, name string, description *string, parentID *uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	c.Name = name
	c.Description = description
	c.ParentID = parentID
	c.UpdatedAt = time.Now().UTC()
	return c, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepository) Tree(ctx context.Context) ([]*domain.CategoryNode, []domain.Category, error) {
	flat, err := m.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	roots, cyclic := domain.BuildCategoryTree(flat)
	return roots, cyclic, nil
}

type mockBrandRepository struct {
	brands map[uuid.UUID]*domain.Brand
}

func newMockBrandRepository() *mockBrandRepository {
	return &mockBrandRepository{brands: make(map[uuid.UUID]*domain.Brand)}
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *domain.Brand) (*domain.Brand, error) {
	b := *brand
	b.ID = uuid.New()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.brands[b.ID] = &b
	return &b, nil
}

func (m *mockBrandRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	b, ok := m.brands[id]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}
	return b, nil
}

func (m *mockBrandRepository) Update(ctx context.Context, id uuid.UUID, name string, description *string) (*domain.Brand, error) {
	b, ok := m.brands[id]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}
	b.Name = name
	b.Description = description
	b.UpdatedAt = time.Now().UTC()
	return b, nil
}

func (m *mockBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.brands, id)
	return nil
}

func (m *mockBrandRepository) List(ctx context.Context) ([]domain.Brand, error) {
	out := make([]domain.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, *b)
	}
	return out, nil
}

type mockUnitRepository struct {
	units map[uuid.UUID]*domain.Unit
}

func newMockUnitRepository() *mockUnitRepository {
	return &mockUnitRepository{units: make(map[uuid.UUID]*domain.Unit)}
}

func (m *mockUnitRepository) Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error) {
	u := *unit
	u.ID = uuid.New()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.units[u.ID] = &u
	return &u, nil
}

func (m *mockUnitRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, repository.ErrUnitNotFound
	}
	return u, nil
}

func (m *mockUnitRepository) Update(ctx context.Context, id uuid.UUID, name string, abbreviation *string) (*domain.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, repository.ErrUnitNotFound
	}
	u.Name = name
	u.Abbreviation = abbreviation
	u.UpdatedAt = time.Now().UTC()
	return u, nil
}

func (m *mockUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepository) List(ctx context.Context) ([]domain.Unit, error) {
	out := make([]domain.Unit, 0, len(m.units))
	for _, u := range m.units {
		out = append(out, *u)
	}
	return out, nil
}

func newTaxonomyTestRouter(categories *mockCategoryRepository) chi.Router {
	r := chi.NewRouter()
	handler := NewTaxonomyHandler(categories, newMockBrandRepository(), newMockUnitRepository(), zap.NewNop())
	passThrough := func(next http.Handler) http.Handler { return next }
	handler.RegisterRoutes(r, passThrough)
	return r
}

func TestCategoryEndpoints(t *testing.T) {
	categories := newMockCategoryRepository()
	router := newTaxonomyTestRouter(categories)

	t.Run("create and fetch", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/categories/",
			strings.NewReader(`{"name":"Hardware","description":"Computer hardware"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created domain.Category
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "Hardware", created.Name)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories/"+created.ID.String(), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched domain.Category
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
		assert.Equal(t, created.ID, fetched.ID)
	})

	t.Run("blank name fails validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/categories/", strings.NewReader(`{"name":""}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update rewrites fields", func(t *testing.T) {
		created, err := categories.Create(context.Background(), &domain.Category{Name: "Peripherals"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/categories/"+created.ID.String(),
			strings.NewReader(`{"name":"Accessories"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated domain.Category
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, "Accessories", updated.Name)
	})

	t.Run("unknown ID is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories/"+uuid.New().String(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete is 204", func(t *testing.T) {
		created, err := categories.Create(context.Background(), &domain.Category{Name: "Doomed"})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/categories/"+created.ID.String(), nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories/"+created.ID.String(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCategoryTreeEndpoint(t *testing.T) {
	categories := newMockCategoryRepository()
	router := newTaxonomyTestRouter(categories)
	ctx := context.Background()

	root, err := categories.Create(ctx, &domain.Category{Name: "Hardware"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, &domain.Category{Name: "Cables", ParentID: &root.ID})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories/tree", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CategoryTreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tree, 1)
	assert.Equal(t, "Hardware", resp.Tree[0].Name)
	require.Len(t, resp.Tree[0].Children, 1)
	assert.Equal(t, "Cables", resp.Tree[0].Children[0].Name)
	assert.Empty(t, resp.Cyclic)
}

func TestBrandEndpoints(t *testing.T) {
	router := newTaxonomyTestRouter(newMockCategoryRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/brands/", strings.NewReader(`{"name":"Samsung"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Brand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/brands/"+created.ID.String(),
		strings.NewReader(`{"name":"Samsung Electronics"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.Brand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Samsung Electronics", updated.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/brands/"+uuid.New().String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnitEndpoints(t *testing.T) {
	router := newTaxonomyTestRouter(newMockCategoryRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/units/", strings.NewReader(`{"name":"Kilogram","abbreviation":"kg"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Unit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Abbreviation)
	assert.Equal(t, "kg", *created.Abbreviation)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/units/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/units/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
