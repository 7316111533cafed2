// Package export renders catalog data into spreadsheet files for the
// download endpoints.
package export

import (
	"fmt"
	"io"
	"strings"

	"stockdesk/internal/domain"

	"github.com/xuri/excelize/v2"
)

const productSheet = "Products"

var productHeaders = []string{
	"ID", "Name", "SKU", "Description", "Barcode", "Unit", "Location",
	"Purchase Price", "Sale Price", "Stock", "Min Stock", "Max Stock",
	"Status", "Tax Rate", "Created At", "Updated At",
}

// WriteProductsXLSX writes the product list as an xlsx workbook
func WriteProductsXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), productSheet)

	for col, header := range productHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(productSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, p := range products {
		values := []any{
			p.ID.String(), p.Name, p.SKU, stringOrEmpty(p.Description),
			stringOrEmpty(p.Barcode), p.Unit, stringOrEmpty(p.Location),
			p.PurchasePrice, p.SalePrice, p.StockQuantity,
			intOrEmpty(p.MinStockLevel), intOrEmpty(p.MaxStockLevel),
			string(p.Status), p.TaxRate,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
			p.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(productSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ReadProductNames lists the product names found in an uploaded workbook,
// used to preview bulk imports. The first row is assumed to be a header.
func ReadProductNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		if name := strings.TrimSpace(row[1]); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}
