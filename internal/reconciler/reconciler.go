package reconciler

import (
	"io"
	"os"

	"photo-renamer/internal/config"
	"photo-renamer/internal/extractor"
	"photo-renamer/internal/logger"
	"photo-renamer/internal/statistics"

	"github.com/sirupsen/logrus"
)

// Reconciler compares capture dates with filenames for one directory.
type Reconciler struct {
	config    *config.Config
	logger    *logrus.Logger
	stats     *statistics.Statistics
	extractor extractor.DateExtractor
	out       io.Writer
}

// NewReconciler returns a new Reconciler. Rename lines go to out (stdout when nil).
func NewReconciler(
	cfg *config.Config,
	log *logrus.Logger,
	stats *statistics.Statistics,
	dateExtractor extractor.DateExtractor,
	out io.Writer,
) *Reconciler {
	if out == nil {
		out = os.Stdout
	}
	return &Reconciler{
		config:    cfg,
		logger:    log,
		stats:     stats,
		extractor: dateExtractor,
		out:       out,
	}
}

// Scan lists the configured directory. Only a missing directory is an error.
func (r *Reconciler) Scan(entry *logrus.Entry) ([]MediaFile, error) {
	files, skipped, err := ScanDirectory(r.config.Directory)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		entry.Warnf("Skipping unreadable entry: %v", e)
	}
	entry.Infof("Found %d files in %s", len(files), r.config.Directory)
	return files, nil
}

// Prepare fills in the capture date of every file. Failures mark the file
// unprocessable and never stop the batch.
func (r *Reconciler) Prepare(entry *logrus.Entry, files []MediaFile) {
	for i := range files {
		f := &files[i]
		fileLog := logger.WithFile(entry, f.Path)
		r.stats.RecordFile(f.Extension, f.Size)

		if !r.config.IsSupportedExtension(f.Extension) {
			f.Unprocessable = true
			f.Reason = "unsupported extension"
			r.stats.IncrementUnprocessable()
			fileLog.Debugf("Skipping unsupported file type: %s", f.Name)
			continue
		}

		result, err := r.extractor.Extract(f.Path, f.Extension)
		if err != nil {
			f.Unprocessable = true
			f.Reason = err.Error()
			r.stats.IncrementUnprocessable()
			r.stats.AddError(f.Path, "metadata", err.Error())
			fileLog.Warnf("Could not read metadata from %s: %v", f.Name, err)
			continue
		}

		f.ChosenTakenDate = result.Chosen
		f.ChosenField = result.ChosenField
		f.AllCandidateDates = result.AllDates
		f.Fields = result.Fields
		f.Reader = result.Reader

		if !result.HasDate() {
			f.Unprocessable = true
			f.Reason = "no capture date field"
			r.stats.IncrementUnprocessable()
			continue
		}

		r.stats.RecordChosenField(result.ChosenField)
		fileLog.WithField("field", result.ChosenField).Debugf("Capture date %s", result.Chosen)
	}
}

// Statistics returns the run statistics.
func (r *Reconciler) Statistics() *statistics.Statistics {
	return r.stats
}
