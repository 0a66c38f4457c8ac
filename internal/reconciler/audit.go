package reconciler

import (
	"photo-renamer/internal/filename"
	"photo-renamer/internal/logger"
)

// ReconciliationResult is one audit row.
type ReconciliationResult struct {
	Filename              string
	Extension             string
	FilesystemCreatedDate string
	ChosenTakenDate       string
	AllCandidateDates     []string
	FilenameDate          string
	Matches               bool
	Unprocessable         bool
	Fields                map[string]string
}

// Audit compares each file's name with its capture and creation dates.
// Rows come back in chosen-date order and hold the mismatched and the
// unprocessable files, or every file when audit.include_matching is set.
func (r *Reconciler) Audit(files []MediaFile) []ReconciliationResult {
	var results []ReconciliationResult
	for _, f := range sortByChosenDate(files) {
		row := reconcile(f)
		if row.Matches {
			r.stats.IncrementMatched()
		} else {
			r.stats.IncrementMismatched()
		}

		if row.Matches && !row.Unprocessable && !r.config.Audit.IncludeMatching {
			continue
		}
		results = append(results, row)
	}
	return results
}

// RunAudit scans the directory and audits every file. The only error is a bad directory.
func (r *Reconciler) RunAudit() ([]ReconciliationResult, error) {
	entry := logger.NewRun(r.logger, "audit")
	entry.Info("Starting audit")

	files, err := r.Scan(entry)
	if err != nil {
		return nil, err
	}

	r.Prepare(entry, files)
	results := r.Audit(files)
	r.stats.Finalize()

	entry.Infof("Audit completed: %d rows", len(results))
	return results, nil
}

// reconcile builds the audit row for one file. An empty capture date never matches.
func reconcile(f MediaFile) ReconciliationResult {
	nameDate := filename.ExtractDate(f.Name)
	matches := (f.ChosenTakenDate != "" && nameDate == f.ChosenTakenDate) ||
		(f.FilesystemCreatedDate != "" && nameDate == f.FilesystemCreatedDate)

	return ReconciliationResult{
		Filename:              f.Name,
		Extension:             f.Extension,
		FilesystemCreatedDate: f.FilesystemCreatedDate,
		ChosenTakenDate:       f.ChosenTakenDate,
		AllCandidateDates:     f.AllCandidateDates,
		FilenameDate:          nameDate,
		Matches:               matches,
		Unprocessable:         f.Unprocessable,
		Fields:                f.Fields,
	}
}
