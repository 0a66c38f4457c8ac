package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"photo-renamer/internal/reconciler"
)

var csvHeader = []string{"filename", "file_ext", "creation_dt", "taken_dt"}

// WriteCSV writes one semicolon-separated line per row under a fixed header.
func WriteCSV(w io.Writer, rows []reconciler.ReconciliationResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Filename,
			row.Extension,
			row.FilesystemCreatedDate,
			row.ChosenTakenDate,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Filename, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
