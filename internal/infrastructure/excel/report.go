// Package excel renders reports as XLSX workbooks.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"almox/internal/domain/reports"
)

const movementsSheet = "Movements"

var movementHeader = []any{
	"Date", "Movement", "Type", "Active", "Destination", "User",
	"Product Code", "Product Name", "Quantity", "Unit Price", "Unit Cost",
}

// MovementReport builds an XLSX workbook with one row per movement line.
func MovementReport(rows []reports.MovementRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(movementsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(movementsSheet, "A1", &movementHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}

		var unitPrice, unitCost any
		if row.UnitPrice != nil {
			unitPrice, _ = row.UnitPrice.Float64()
		}
		if row.UnitCost != nil {
			unitCost, _ = row.UnitCost.Float64()
		}

		values := []any{
			row.OccurredAt.Format("2006-01-02 15:04"),
			row.MovementID.String(),
			row.Type,
			row.Active,
			row.Destination,
			row.UserID,
			row.ProductCode,
			row.ProductName,
			row.Quantity,
			unitPrice,
			unitCost,
		}
		if err := f.SetSheetRow(movementsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
