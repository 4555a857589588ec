package liveviewer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"edadash/domain/table"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Data"

// WriteCSV writes the header and every row; missing cells are empty fields
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	for i := 0; i < t.RowCount(); i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a single-sheet workbook. Numeric cells are stored as
// numbers so spreadsheet formulas work on the export.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, t.ColumnCount())
	for _, name := range t.ColumnNames() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.RowCount(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(t.Columns))
		for c, col := range t.Columns {
			row[c] = cellValue(col, i)
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	return f.Write(w)
}

func cellValue(col *table.Column, i int) interface{} {
	if col.IsMissing(i) {
		return nil
	}
	if col.Type == table.TypeNumeric && col.HasNumbers() && !math.IsNaN(col.Numbers[i]) {
		return col.Numbers[i]
	}
	return col.Values[i]
}
