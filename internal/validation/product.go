package validation

import (
	"stockdesk/internal/domain"
)

// productRules mirrors the product record shape with the field constraints
// attached. Field names match the JSON wire names so errors map straight
// onto form fields.
type productRules struct {
	Name           string   `validate:"required"`
	SKU            string   `validate:"required"`
	BarcodeType    string   `validate:"omitempty,oneof=CODE128 EAN13 UPC"`
	PurchasePrice  float64  `validate:"gte=0"`
	SalePrice      float64  `validate:"gte=0"`
	ProfitMargin   *float64 `validate:"omitempty,gte=0"`
	StockQuantity  int      `validate:"gte=0"`
	MinStockLevel  *int     `validate:"omitempty,gte=0"`
	MaxStockLevel  *int     `validate:"omitempty,gte=0"`
	Weight         *float64 `validate:"omitempty,gte=0"`
	Status         string   `validate:"omitempty,oneof=active inactive draft"`
	TaxRate        float64  `validate:"gte=0,lte=100"`
	SEOTitle       *string  `validate:"omitempty,max=60"`
	SEODescription *string  `validate:"omitempty,max=160"`
}

// Product validates a full product record before create. A nil return
// means the record may proceed to the repository.
func Product(p *domain.Product) []FieldError {
	return Check(productRules{
		Name:           p.Name,
		SKU:            p.SKU,
		BarcodeType:    string(p.BarcodeType),
		PurchasePrice:  p.PurchasePrice,
		SalePrice:      p.SalePrice,
		ProfitMargin:   p.ProfitMargin,
		StockQuantity:  p.StockQuantity,
		MinStockLevel:  p.MinStockLevel,
		MaxStockLevel:  p.MaxStockLevel,
		Weight:         p.Weight,
		Status:         string(p.Status),
		TaxRate:        p.TaxRate,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
	})
}

// ProductPatch validates only the fields a patch sets. Omitted fields
// carry no constraints since the stored values already passed.
func ProductPatch(patch *domain.ProductPatch) []FieldError {
	var errs []FieldError

	if patch.Name != nil && *patch.Name == "" {
		errs = append(errs, FieldError{Field: "Name", Message: "This field is required"})
	}
	if patch.SKU != nil && *patch.SKU == "" {
		errs = append(errs, FieldError{Field: "SKU", Message: "This field is required"})
	}
	if patch.BarcodeType != nil {
		switch *patch.BarcodeType {
		case domain.BarcodeTypeCode128, domain.BarcodeTypeEAN13, domain.BarcodeTypeUPC:
		default:
			errs = append(errs, FieldError{Field: "BarcodeType", Message: "Value must be one of: CODE128 EAN13 UPC"})
		}
	}
	if patch.PurchasePrice != nil && *patch.PurchasePrice < 0 {
		errs = append(errs, FieldError{Field: "PurchasePrice", Message: "Value must be greater than or equal to 0"})
	}
	if patch.SalePrice != nil && *patch.SalePrice < 0 {
		errs = append(errs, FieldError{Field: "SalePrice", Message: "Value must be greater than or equal to 0"})
	}
	if patch.ProfitMargin != nil && *patch.ProfitMargin < 0 {
		errs = append(errs, FieldError{Field: "ProfitMargin", Message: "Value must be greater than or equal to 0"})
	}
	if patch.StockQuantity != nil && *patch.StockQuantity < 0 {
		errs = append(errs, FieldError{Field: "StockQuantity", Message: "Value must be greater than or equal to 0"})
	}
	if patch.MinStockLevel != nil && *patch.MinStockLevel < 0 {
		errs = append(errs, FieldError{Field: "MinStockLevel", Message: "Value must be greater than or equal to 0"})
	}
	if patch.MaxStockLevel != nil && *patch.MaxStockLevel < 0 {
		errs = append(errs, FieldError{Field: "MaxStockLevel", Message: "Value must be greater than or equal to 0"})
	}
	if patch.Weight != nil && *patch.Weight < 0 {
		errs = append(errs, FieldError{Field: "Weight", Message: "Value must be greater than or equal to 0"})
	}
	if patch.Status != nil && !patch.Status.Valid() {
		errs = append(errs, FieldError{Field: "Status", Message: "Value must be one of: active inactive draft"})
	}
	if patch.TaxRate != nil && (*patch.TaxRate < 0 || *patch.TaxRate > 100) {
		errs = append(errs, FieldError{Field: "TaxRate", Message: "Value must be between 0 and 100"})
	}
	if patch.SEOTitle != nil && len(*patch.SEOTitle) > 60 {
		errs = append(errs, FieldError{Field: "SEOTitle", Message: "Value is too long, maximum is 60"})
	}
	if patch.SEODescription != nil && len(*patch.SEODescription) > 160 {
		errs = append(errs, FieldError{Field: "SEODescription", Message: "Value is too long, maximum is 160"})
	}

	return errs
}
