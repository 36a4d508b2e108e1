package reports

import (
	"bytes"
	"fmt"
	"time"

	pkgerrors "github.com/plantitas-de-la-fe/pos-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const excelSheet = "Reporte"

// RenderExcel writes the table to an xlsx workbook: bold title, styled
// header row with an autofilter, frozen panes under the header and peso
// formatting on the money columns.
func RenderExcel(table *Table, generatedAt time.Time) ([]byte, error) {
	if table == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no table to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dropping default sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	moneyFormat := "$#,##0"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	if err := f.SetCellValue(excelSheet, "A1", table.Title); err != nil {
		return nil, fmt.Errorf("writing title: %w", err)
	}
	if err := f.SetCellStyle(excelSheet, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("styling title: %w", err)
	}
	if err := f.SetCellValue(excelSheet, "A2", "Generado: "+generatedAt.Format("02/01/2006 15:04")); err != nil {
		return nil, fmt.Errorf("writing timestamp: %w", err)
	}

	const headerRow = 3
	for col, header := range table.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(excelSheet, cell, header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
		if err := f.SetCellStyle(excelSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("styling header: %w", err)
		}
	}

	money := map[int]bool{}
	for _, col := range table.MoneyColumns {
		money[col] = true
	}

	for rowIdx, row := range table.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, headerRow+1+rowIdx)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(excelSheet, cell, value); err != nil {
				return nil, fmt.Errorf("writing cell: %w", err)
			}
			if money[col] {
				if err := f.SetCellStyle(excelSheet, cell, cell, moneyStyle); err != nil {
					return nil, fmt.Errorf("styling cell: %w", err)
				}
			}
		}
	}

	if len(table.Headers) > 0 {
		lastCol, err := excelize.ColumnNumberToName(len(table.Headers))
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		filterRange := fmt.Sprintf("A%d:%s%d", headerRow, lastCol, headerRow)
		if err := f.AutoFilter(excelSheet, filterRange, nil); err != nil {
			return nil, fmt.Errorf("autofilter: %w", err)
		}
	}

	if err := f.SetPanes(excelSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
