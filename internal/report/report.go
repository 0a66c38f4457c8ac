// Package report writes audit results as semicolon CSV or as a spreadsheet.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"photo-renamer/internal/config"
	"photo-renamer/internal/reconciler"
)

// Write stores rows at path in the requested format, replacing any previous report.
func Write(path, format string, rows []reconciler.ReconciliationResult) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	switch format {
	case config.FormatXLSX:
		return WriteXLSX(path, rows)
	case config.FormatCSV:
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if err := WriteCSV(file, rows); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}
