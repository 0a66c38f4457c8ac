package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"photo-renamer/internal/extractor"
	"photo-renamer/internal/reconciler"

	"github.com/xuri/excelize/v2"
)

const sheetName = "audit"

// xlsxFields are the raw metadata columns following "filename".
var xlsxFields = []string{
	extractor.FieldFileCreateDate,
	extractor.FieldCreationDate,
	extractor.FieldDateTimeOriginal,
	extractor.FieldDateCreated,
	extractor.FieldContentCreateDate,
	extractor.FieldMediaCreateDate,
	extractor.FieldOffsetTimeOrig,
}

// XLSXHeader returns the spreadsheet header row.
func XLSXHeader() []string {
	return append([]string{"metadata", "possible_dates", "filename"}, xlsxFields...)
}

// WriteXLSX writes a single-sheet workbook: one header row, one row per result.
func WriteXLSX(path string, rows []reconciler.ReconciliationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, XLSXHeader()); err != nil {
		return err
	}

	for i, row := range rows {
		metadata, err := json.Marshal(row.Fields)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", row.Filename, err)
		}

		values := []string{
			truncateCell(string(metadata)),
			"[" + strings.Join(row.AllCandidateDates, ", ") + "]",
			row.Filename,
		}
		for _, field := range xlsxFields {
			values = append(values, row.Fields[field])
		}
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// truncateCell cuts s to the longest value a spreadsheet cell accepts.
func truncateCell(s string) string {
	if utf8.RuneCountInString(s) <= excelize.TotalCellChars {
		return s
	}
	return string([]rune(s)[:excelize.TotalCellChars])
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
