package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const combinationSheet = "Combinations"

// CombinationWorkbook renders a product's explicit price combinations as an
// XLSX workbook: one column per variant attribute, then adjustment, final
// price, SKU, stock and status.
func CombinationWorkbook(product *model.Product, attributes []service.EffectiveAttribute, combos []model.ProductAttributeCombination) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(combinationSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	variants := make([]service.EffectiveAttribute, 0, len(attributes))
	for _, attr := range attributes {
		if attr.IsVariant {
			variants = append(variants, attr)
		}
	}
	sort.SliceStable(variants, func(i, j int) bool {
		return variants[i].AttributeID < variants[j].AttributeID
	})

	headers := make([]string, 0, len(variants)+5)
	for _, attr := range variants {
		headers = append(headers, attr.DisplayName)
	}
	headers = append(headers, "Adjustment", "Final Price", "SKU", "Stock", "Active")
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(combinationSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(combinationSheet, "A1", last, headerStyle)
	}

	for rowIdx, combo := range combos {
		row := rowIdx + 2

		display := map[string]string{}
		if len(combo.Attributes) > 0 {
			// Display snapshot is best-effort; a broken blob falls back to
			// the raw hash parts.
			_ = json.Unmarshal(combo.Attributes, &display)
		}

		col := 1
		for _, attr := range variants {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			label := display[fmt.Sprintf("%d", attr.AttributeID)]
			if err := f.SetCellValue(combinationSheet, cell, label); err != nil {
				return nil, err
			}
			col++
		}

		finalPrice := product.BasePrice.Add(combo.PriceAdjustment).Round(2)
		tail := []interface{}{
			combo.PriceAdjustment.StringFixed(2),
			finalPrice.StringFixed(2),
			combo.SKU,
			combo.StockQuantity,
			combo.IsActive,
		}
		for _, value := range tail {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(combinationSheet, cell, value); err != nil {
				return nil, err
			}
			col++
		}
	}

	return f, nil
}
