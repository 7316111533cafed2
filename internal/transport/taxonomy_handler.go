package transport

import (
	"errors"
	"net/http"

	"stockdesk/internal/domain"
	"stockdesk/internal/middleware"
	"stockdesk/internal/repository"
	"stockdesk/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryTreeResponse carries the category forest plus any records
// that had to be left out because their parent chain loops
type CategoryTreeResponse struct {
	Tree   []*domain.CategoryNode `json:"tree"`
	Cyclic []domain.Category      `json:"cyclic,omitempty"`
}

// TaxonomyHandler handles HTTP requests for categories, brands and units
type TaxonomyHandler struct {
	categories repository.CategoryRepository
	brands     repository.BrandRepository
	units      repository.UnitRepository
	logger     *zap.Logger
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(
	categories repository.CategoryRepository,
	brands repository.BrandRepository,
	units repository.UnitRepository,
	logger *zap.Logger,
) *TaxonomyHandler {
	return &TaxonomyHandler{
		categories: categories,
		brands:     brands,
		units:      units,
		logger:     logger,
	}
}

// RegisterRoutes registers all taxonomy routes
func (h *TaxonomyHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/tree", h.CategoryTree)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/api/brands", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreateBrand)
		r.Get("/", h.ListBrands)
		r.Get("/{id}", h.GetBrand)
		r.Put("/{id}", h.UpdateBrand)
		r.Delete("/{id}", h.DeleteBrand)
	})

	r.Route("/api/units", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.CreateUnit)
		r.Get("/", h.ListUnits)
		r.Get("/{id}", h.GetUnit)
		r.Put("/{id}", h.UpdateUnit)
		r.Delete("/{id}", h.DeleteUnit)
	})
}

// CreateCategory handles category creation
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := middleware.DecodeJSON(r, &category); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Category(&category); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	created, err := h.categories.Create(r.Context(), &category)
	if err != nil {
		h.logger.Error("Category creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// ListCategories returns all categories as a flat list
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Error("Category listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// CategoryTree returns the categories assembled into a forest
func (h *TaxonomyHandler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, cyclic, err := h.categories.Tree(r.Context())
	if err != nil {
		h.logger.Error("Category tree build failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build category tree")
		return
	}

	if len(cyclic) > 0 {
		h.logger.Warn("Categories excluded from tree due to parent cycles",
			zap.Int("count", len(cyclic)),
		)
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryTreeResponse{
		Tree:   tree,
		Cyclic: cyclic,
	})
}

// GetCategory fetches a single category by ID
func (h *TaxonomyHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Category lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// UpdateCategory replaces a category's mutable fields
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var category domain.Category
	if err := middleware.DecodeJSON(r, &category); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Category(&category); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	updated, err := h.categories.Update(r.Context(), id, category.Name, category.Description, category.ParentID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Category update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteCategory removes a category, detaching its children first
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		h.logger.Error("Category deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateBrand handles brand creation
func (h *TaxonomyHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var brand domain.Brand
	if err := middleware.DecodeJSON(r, &brand); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Brand(&brand); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	created, err := h.brands.Create(r.Context(), &brand)
	if err != nil {
		h.logger.Error("Brand creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create brand")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// ListBrands returns all brands
func (h *TaxonomyHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brands.List(r.Context())
	if err != nil {
		h.logger.Error("Brand listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

// GetBrand fetches a single brand by ID
func (h *TaxonomyHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand ID")
		return
	}

	brand, err := h.brands.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
			return
		}
		h.logger.Error("Brand lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get brand")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brand)
}

// UpdateBrand replaces a brand's mutable fields
func (h *TaxonomyHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand ID")
		return
	}

	var brand domain.Brand
	if err := middleware.DecodeJSON(r, &brand); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Brand(&brand); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	updated, err := h.brands.Update(r.Context(), id, brand.Name, brand.Description)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
			return
		}
		h.logger.Error("Brand update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update brand")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteBrand removes a brand
func (h *TaxonomyHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid brand ID")
		return
	}

	if err := h.brands.Delete(r.Context(), id); err != nil {
		h.logger.Error("Brand deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete brand")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateUnit handles unit creation
func (h *TaxonomyHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var unit domain.Unit
	if err := middleware.DecodeJSON(r, &unit); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Unit(&unit); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	created, err := h.units.Create(r.Context(), &unit)
	if err != nil {
		h.logger.Error("Unit creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create unit")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// ListUnits returns all units
func (h *TaxonomyHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.units.List(r.Context())
	if err != nil {
		h.logger.Error("Unit listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list units")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, units)
}

// GetUnit fetches a single unit by ID
func (h *TaxonomyHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	unit, err := h.units.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "unit not found")
			return
		}
		h.logger.Error("Unit lookup failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get unit")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, unit)
}

// UpdateUnit replaces a unit's mutable fields
func (h *TaxonomyHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	var unit domain.Unit
	if err := middleware.DecodeJSON(r, &unit); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Unit(&unit); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	updated, err := h.units.Update(r.Context(), id, unit.Name, unit.Abbreviation)
	if err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "unit not found")
			return
		}
		h.logger.Error("Unit update failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update unit")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteUnit removes a unit
func (h *TaxonomyHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	if err := h.units.Delete(r.Context(), id); err != nil {
		h.logger.Error("Unit deletion failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete unit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
