package transport

import (
	"errors"
	"net/http"
	"strconv"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/middleware"
	"stockdesk/internal/repository"
	"stockdesk/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ProductListResponse wraps a product page with its paging parameters
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ImportPreviewResponse lists the product names found in an uploaded
// workbook before anything is committed
type ImportPreviewResponse struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Post("/import/preview", h.ImportPreview)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product domain.Product

	if err := middleware.DecodeJSON(r, &product); err != nil {
		h.logger.Debug("Product decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.Product(&product); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	// Fill in the catalog URL from the name when the client left it empty
	if product.SEOURL == nil || *product.SEOURL == "" {
		seoURL := slug.Make(product.Name)
		product.SEOURL = &seoURL
	}

	created, err := h.products.Create(r.Context(), &product)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			middleware.RespondWithError(w, http.StatusConflict, "product with this SKU already exists")
			return
		}
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", created.ID.String()),
		zap.String("sku", created.SKU),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// Get handles fetching a single product by ID
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product lookup failed", zap.Error(err), zap.String("product_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var patch domain.ProductPatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		h.logger.Debug("Product patch decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ProductPatch(&patch); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	updated, err := h.products.Update(r.Context(), id, &patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrDuplicateSKU):
			middleware.RespondWithError(w, http.StatusConflict, "product with this SKU already exists")
		default:
			h.logger.Error("Product update failed", zap.Error(err), zap.String("product_id", id.String()))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete handles product deletion. Deleting an unknown ID is not an
// error, the outcome is the same either way.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.logger.Error("Product deletion failed", zap.Error(err), zap.String("product_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// List handles filtered, paginated product listings
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := h.products.List(r.Context(), filter)

	page := filter.Page
	if page < 1 {
		page = repository.DefaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = repository.DefaultLimit
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Page:     page,
		Limit:    limit,
	})
}

// Export streams the filtered catalog as an xlsx workbook. The same
// query parameters as List apply, minus paging: every matching page is
// collected before writing.
func (h *ProductHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter.Page = 1
	filter.Limit = 500

	var all []domain.Product
	for {
		page := h.products.List(r.Context(), filter)
		all = append(all, page...)
		if len(page) < filter.Limit {
			break
		}
		filter.Page++
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)

	if err := export.WriteProductsXLSX(w, all); err != nil {
		h.logger.Error("Product export failed", zap.Error(err))
		return
	}

	h.logger.Info("Product catalog exported", zap.Int("count", len(all)))
}

// ImportPreview reads an uploaded workbook and returns the product names
// it holds, so a client can confirm a bulk import before committing it.
// Nothing is written.
func (h *ProductHandler) ImportPreview(w http.ResponseWriter, r *http.Request) {
	names, err := export.ReadProductNames(r.Body)
	if err != nil {
		h.logger.Debug("Import preview parse failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "uploaded file is not a readable workbook")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ImportPreviewResponse{
		Names: names,
		Count: len(names),
	})
}

func filterFromQuery(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		Search: q.Get("search"),
	}

	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid category ID")
		}
		filter.Category = &id
	}

	if raw := q.Get("brand"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid brand ID")
		}
		filter.Brand = &id
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.ProductStatus(raw)
		if !status.Valid() {
			return filter, errors.New("invalid status")
		}
		filter.Status = status
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errors.New("invalid page")
		}
		filter.Page = page
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}
