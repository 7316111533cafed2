package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockdesk/internal/domain"
	"stockdesk/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSKU    = errors.New("product with this SKU already exists")
)

const (
	// DefaultPage and DefaultLimit apply when a list filter leaves them unset
	DefaultPage  = 1
	DefaultLimit = 25
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ProductFilter) []domain.Product
}

type productRepository struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProductRepository creates a new instance of ProductRepository. The
// repository holds no state of its own; every operation opens its own
// scope against the store.
func NewProductRepository(st *store.Store, logger *zap.Logger) ProductRepository {
	return &productRepository{store: st, logger: logger}
}

const productColumns = `id, name, sku, description, barcode, barcode_type, category_id, brand_id,
		unit, location, purchase_price, sale_price, profit_margin, stock_quantity,
		min_stock_level, max_stock_level, weight, status, hide_from_catalog, hide_from_sales,
		enable_serial_tracking, tax_rate, seo_title, seo_description, seo_keywords, seo_url,
		main_image, gallery, created_at, updated_at`

// Create assigns a fresh identifier, stamps both timestamps and writes the
// record inside a read-write scope. A duplicate SKU surfaces as
// ErrDuplicateSKU, never as a silent retry.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	stored := *product
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.BarcodeType == "" {
		stored.BarcodeType = domain.BarcodeTypeCode128
	}
	if stored.Status == "" {
		stored.Status = domain.ProductStatusActive
	}

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		return insertProduct(ctx, tx, &stored)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &stored, nil
}

// Get retrieves a product by ID. Absence is signalled with
// ErrProductNotFound, never a panic.
func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product *domain.Product

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
		p, err := scanProduct(row)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Update loads the record, merges the patch over it (patch fields win,
// omitted fields are retained), restamps updated_at and writes back. Read
// and write share one scope so the merge never races a concurrent commit
// of the same row.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch) (*domain.Product, error) {
	var merged *domain.Product

	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
		existing, err := scanProduct(row)
		if err != nil {
			return err
		}

		patch.Apply(existing)
		existing.ID = id
		existing.UpdatedAt = time.Now().UTC()

		if err := updateProduct(ctx, tx, existing); err != nil {
			return err
		}
		merged = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return merged, nil
}

// Delete removes the product unconditionally. Deleting an absent
// identifier is a no-op, matching store semantics.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.store.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// List reads the full collection in a read scope and applies the filters
// in memory: substring search over name/sku/description, exact category,
// brand and status matches, then 1-based page/limit slicing. Internal
// failures are logged and downgraded to an empty result so a browsing
// view never crashes.
func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) []domain.Product {
	var products []domain.Product

	err := r.store.View(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			products = append(products, *p)
		}
		return rows.Err()
	})
	if err != nil {
		r.logger.Error("Failed to list products, returning empty result",
			zap.Error(err),
			zap.String("search", filter.Search),
		)
		return []domain.Product{}
	}

	return paginate(filterProducts(products, filter), filter.Page, filter.Limit)
}

func filterProducts(products []domain.Product, filter domain.ProductFilter) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))

	search := strings.ToLower(filter.Search)
	for _, p := range products {
		if search != "" && !matchesSearch(&p, search) {
			continue
		}
		if filter.Category != nil && (p.CategoryID == nil || *p.CategoryID != *filter.Category) {
			continue
		}
		if filter.Brand != nil && (p.BrandID == nil || *p.BrandID != *filter.Brand) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesSearch(p *domain.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.SKU), search) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), search)
}

func paginate(products []domain.Product, page, limit int) []domain.Product {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	start := (page - 1) * limit
	if start >= len(products) {
		return []domain.Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func insertProduct(ctx context.Context, tx *sql.Tx, p *domain.Product) error {
	gallery, err := marshalGallery(p.Gallery)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
	`,
		p.ID, p.Name, p.SKU, p.Description, p.Barcode, string(p.BarcodeType),
		p.CategoryID, p.BrandID, p.Unit, p.Location, p.PurchasePrice, p.SalePrice,
		p.ProfitMargin, p.StockQuantity, p.MinStockLevel, p.MaxStockLevel, p.Weight,
		string(p.Status), p.HideFromCatalog, p.HideFromSales, p.EnableSerialTracking,
		p.TaxRate, p.SEOTitle, p.SEODescription, p.SEOKeywords, p.SEOURL,
		p.MainImage, gallery, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func updateProduct(ctx context.Context, tx *sql.Tx, p *domain.Product) error {
	gallery, err := marshalGallery(p.Gallery)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET name = $2, sku = $3, description = $4, barcode = $5, barcode_type = $6,
		    category_id = $7, brand_id = $8, unit = $9, location = $10,
		    purchase_price = $11, sale_price = $12, profit_margin = $13,
		    stock_quantity = $14, min_stock_level = $15, max_stock_level = $16,
		    weight = $17, status = $18, hide_from_catalog = $19, hide_from_sales = $20,
		    enable_serial_tracking = $21, tax_rate = $22, seo_title = $23,
		    seo_description = $24, seo_keywords = $25, seo_url = $26,
		    main_image = $27, gallery = $28, updated_at = $29
		WHERE id = $1
	`,
		p.ID, p.Name, p.SKU, p.Description, p.Barcode, string(p.BarcodeType),
		p.CategoryID, p.BrandID, p.Unit, p.Location, p.PurchasePrice, p.SalePrice,
		p.ProfitMargin, p.StockQuantity, p.MinStockLevel, p.MaxStockLevel, p.Weight,
		string(p.Status), p.HideFromCatalog, p.HideFromSales, p.EnableSerialTracking,
		p.TaxRate, p.SEOTitle, p.SEODescription, p.SEOKeywords, p.SEOURL,
		p.MainImage, gallery, p.UpdatedAt,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		barcodeType string
		status      string
		gallery     []byte
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.Barcode, &barcodeType,
		&p.CategoryID, &p.BrandID, &p.Unit, &p.Location, &p.PurchasePrice, &p.SalePrice,
		&p.ProfitMargin, &p.StockQuantity, &p.MinStockLevel, &p.MaxStockLevel, &p.Weight,
		&status, &p.HideFromCatalog, &p.HideFromSales, &p.EnableSerialTracking,
		&p.TaxRate, &p.SEOTitle, &p.SEODescription, &p.SEOKeywords, &p.SEOURL,
		&p.MainImage, &gallery, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.BarcodeType = domain.BarcodeType(barcodeType)
	p.Status = domain.ProductStatus(status)
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &p.Gallery); err != nil {
			return nil, fmt.Errorf("failed to decode product gallery: %w", err)
		}
	}
	return &p, nil
}

func marshalGallery(gallery []string) (any, error) {
	if gallery == nil {
		return nil, nil
	}
	data, err := json.Marshal(gallery)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product gallery: %w", err)
	}
	return data, nil
}

// isUniqueViolation reports whether err is a uniqueness constraint breach
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
