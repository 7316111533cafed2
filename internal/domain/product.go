package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the lifecycle state of a catalog product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDraft    ProductStatus = "draft"
)

// Valid reports whether s is one of the defined lifecycle states
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDraft:
		return true
	}
	return false
}

// BarcodeType identifies the symbology of a product barcode
type BarcodeType string

const (
	BarcodeTypeCode128 BarcodeType = "CODE128"
	BarcodeTypeEAN13   BarcodeType = "EAN13"
	BarcodeTypeUPC     BarcodeType = "UPC"
)

// Product represents a product in the catalog. Category, Brand and Unit
// hold soft references: they point at other collections by identifier but
// are not enforced as foreign keys.
type Product struct {
	ID                   uuid.UUID     `json:"id" db:"id"`
	Name                 string        `json:"name" db:"name"`
	SKU                  string        `json:"sku" db:"sku"`
	Description          *string       `json:"description,omitempty" db:"description"`
	Barcode              *string       `json:"barcode,omitempty" db:"barcode"`
	BarcodeType          BarcodeType   `json:"barcodeType" db:"barcode_type"`
	CategoryID           *uuid.UUID    `json:"categoryId,omitempty" db:"category_id"`
	BrandID              *uuid.UUID    `json:"brandId,omitempty" db:"brand_id"`
	Unit                 string        `json:"unit" db:"unit"`
	Location             *string       `json:"location,omitempty" db:"location"`
	PurchasePrice        float64       `json:"purchasePrice" db:"purchase_price"`
	SalePrice            float64       `json:"salePrice" db:"sale_price"`
	ProfitMargin         *float64      `json:"profitMargin,omitempty" db:"profit_margin"`
	StockQuantity        int           `json:"stockQuantity" db:"stock_quantity"`
	MinStockLevel        *int          `json:"minStockLevel,omitempty" db:"min_stock_level"`
	MaxStockLevel        *int          `json:"maxStockLevel,omitempty" db:"max_stock_level"`
	Weight               *float64      `json:"weight,omitempty" db:"weight"`
	Status               ProductStatus `json:"status" db:"status"`
	HideFromCatalog      bool          `json:"hideFromCatalog" db:"hide_from_catalog"`
	HideFromSales        bool          `json:"hideFromSales" db:"hide_from_sales"`
	EnableSerialTracking bool          `json:"enableSerialTracking" db:"enable_serial_tracking"`
	TaxRate              float64       `json:"taxRate" db:"tax_rate"`
	SEOTitle             *string       `json:"seoTitle,omitempty" db:"seo_title"`
	SEODescription       *string       `json:"seoDescription,omitempty" db:"seo_description"`
	SEOKeywords          *string       `json:"seoKeywords,omitempty" db:"seo_keywords"`
	SEOURL               *string       `json:"seoUrl,omitempty" db:"seo_url"`
	MainImage            *string       `json:"mainImage,omitempty" db:"main_image"`
	Gallery              []string      `json:"gallery,omitempty" db:"gallery"`
	CreatedAt            time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time     `json:"updatedAt" db:"updated_at"`
}

// ProductPatch describes a partial update. Nil fields are left untouched;
// set fields win over the stored record.
type ProductPatch struct {
	Name                 *string        `json:"name,omitempty"`
	SKU                  *string        `json:"sku,omitempty"`
	Description          *string        `json:"description,omitempty"`
	Barcode              *string        `json:"barcode,omitempty"`
	BarcodeType          *BarcodeType   `json:"barcodeType,omitempty"`
	CategoryID           *uuid.UUID     `json:"categoryId,omitempty"`
	BrandID              *uuid.UUID     `json:"brandId,omitempty"`
	Unit                 *string        `json:"unit,omitempty"`
	Location             *string        `json:"location,omitempty"`
	PurchasePrice        *float64       `json:"purchasePrice,omitempty"`
	SalePrice            *float64       `json:"salePrice,omitempty"`
	ProfitMargin         *float64       `json:"profitMargin,omitempty"`
	StockQuantity        *int           `json:"stockQuantity,omitempty"`
	MinStockLevel        *int           `json:"minStockLevel,omitempty"`
	MaxStockLevel        *int           `json:"maxStockLevel,omitempty"`
	Weight               *float64       `json:"weight,omitempty"`
	Status               *ProductStatus `json:"status,omitempty"`
	HideFromCatalog      *bool          `json:"hideFromCatalog,omitempty"`
	HideFromSales        *bool          `json:"hideFromSales,omitempty"`
	EnableSerialTracking *bool          `json:"enableSerialTracking,omitempty"`
	TaxRate              *float64       `json:"taxRate,omitempty"`
	SEOTitle             *string        `json:"seoTitle,omitempty"`
	SEODescription       *string        `json:"seoDescription,omitempty"`
	SEOKeywords          *string        `json:"seoKeywords,omitempty"`
	SEOURL               *string        `json:"seoUrl,omitempty"`
	MainImage            *string        `json:"mainImage,omitempty"`
	Gallery              []string       `json:"gallery,omitempty"`
}

// Apply merges the patch over p field by field. Only set fields change;
// the identifier and timestamps are never touched here.
func (patch *ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Barcode != nil {
		p.Barcode = patch.Barcode
	}
	if patch.BarcodeType != nil {
		p.BarcodeType = *patch.BarcodeType
	}
	if patch.CategoryID != nil {
		p.CategoryID = patch.CategoryID
	}
	if patch.BrandID != nil {
		p.BrandID = patch.BrandID
	}
	if patch.Unit != nil {
		p.Unit = *patch.Unit
	}
	if patch.Location != nil {
		p.Location = patch.Location
	}
	if patch.PurchasePrice != nil {
		p.PurchasePrice = *patch.PurchasePrice
	}
	if patch.SalePrice != nil {
		p.SalePrice = *patch.SalePrice
	}
	if patch.ProfitMargin != nil {
		p.ProfitMargin = patch.ProfitMargin
	}
	if patch.StockQuantity != nil {
		p.StockQuantity = *patch.StockQuantity
	}
	if patch.MinStockLevel != nil {
		p.MinStockLevel = patch.MinStockLevel
	}
	if patch.MaxStockLevel != nil {
		p.MaxStockLevel = patch.MaxStockLevel
	}
	if patch.Weight != nil {
		p.Weight = patch.Weight
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.HideFromCatalog != nil {
		p.HideFromCatalog = *patch.HideFromCatalog
	}
	if patch.HideFromSales != nil {
		p.HideFromSales = *patch.HideFromSales
	}
	if patch.EnableSerialTracking != nil {
		p.EnableSerialTracking = *patch.EnableSerialTracking
	}
	if patch.TaxRate != nil {
		p.TaxRate = *patch.TaxRate
	}
	if patch.SEOTitle != nil {
		p.SEOTitle = patch.SEOTitle
	}
	if patch.SEODescription != nil {
		p.SEODescription = patch.SEODescription
	}
	if patch.SEOKeywords != nil {
		p.SEOKeywords = patch.SEOKeywords
	}
	if patch.SEOURL != nil {
		p.SEOURL = patch.SEOURL
	}
	if patch.MainImage != nil {
		p.MainImage = patch.MainImage
	}
	if patch.Gallery != nil {
		p.Gallery = patch.Gallery
	}
}

// ProductFilter holds the list query parameters. Zero values mean "no
// filter"; Page and Limit default to 1 and 25 when unset.
type ProductFilter struct {
	Search   string
	Category *uuid.UUID
	Brand    *uuid.UUID
	Status   ProductStatus
	Page     int
	Limit    int
}

// Category represents a product category. ParentID is a self reference,
// so categories form a forest; nothing prevents a cycle at write time.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	ParentID    *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Brand represents a product brand
type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Unit represents a unit of measure, referenced by products as plain text
type Unit struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Abbreviation *string   `json:"abbreviation,omitempty" db:"abbreviation"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
