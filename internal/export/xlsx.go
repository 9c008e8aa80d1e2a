// Package export writes the menu to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the menu worksheet
const SheetName = "Ementa"

// WriteXLSX writes products as an Excel workbook with one row per product
func WriteXLSX(w io.Writer, products []models.Product) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{
		models.LabelDescription,
		models.LabelCategory,
		fmt.Sprintf("%s (%s)", models.LabelPrice, models.CurrencySymbol),
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	priceStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create price style: %w", err)
	}

	row := 2
	for _, p := range products {
		price, _ := p.Price.Float64()
		excelRow := []interface{}{
			p.Description,
			p.Category.Label(),
			price,
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", row, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &excelRow); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	if len(products) > 0 {
		if err := f.SetCellStyle(SheetName, "C2", fmt.Sprintf("C%d", row-1), priceStyle); err != nil {
			return fmt.Errorf("failed to style prices: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
