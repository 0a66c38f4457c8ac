package statistics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Statistics contains all statistics for one audit or rename run.
type Statistics struct {
	FilesFound     int64
	FilesProcessed int64
	Unprocessable  int64
	FilesMatched   int64
	FilesMismatch  int64

	FilesRenamed        int64
	FilesAlreadyNamed   int64
	FilesSkippedNoDate  int64
	RenameErrors        int64
	RenameCollisions    int64
	RenamesSimulated    int64
	CollisionSuffixUsed int64

	BytesScanned int64

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Errors []StatError

	FileTypeStats map[string]int64
	ChosenFrom    map[string]int64
}

// StatError represents an error that occurred during processing.
type StatError struct {
	FilePath  string
	Operation string
	Error     string
	Timestamp time.Time
}

// NewStatistics returns a new Statistics instance.
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime:     time.Now(),
		FileTypeStats: make(map[string]int64),
		ChosenFrom:    make(map[string]int64),
		Errors:        make([]StatError, 0),
	}
}

// RecordFile counts a discovered file of the given extension and size.
func (s *Statistics) RecordFile(extension string, size int64) {
	s.FilesFound++
	s.BytesScanned += size
	if extension == "" {
		extension = "none"
	}
	s.FileTypeStats[strings.ToUpper(extension)]++
}

// RecordChosenField counts which metadata field supplied the capture date.
func (s *Statistics) RecordChosenField(field string) {
	s.FilesProcessed++
	s.ChosenFrom[field]++
}

// IncrementUnprocessable increases the count of files without a usable date by 1.
func (s *Statistics) IncrementUnprocessable() {
	s.FilesProcessed++
	s.Unprocessable++
}

// IncrementMatched increases the count of correctly named files by 1.
func (s *Statistics) IncrementMatched() {
	s.FilesMatched++
}

// IncrementMismatched increases the count of misnamed files by 1.
func (s *Statistics) IncrementMismatched() {
	s.FilesMismatch++
}

// IncrementRenamed increases the count of renamed files by 1.
func (s *Statistics) IncrementRenamed() {
	s.FilesRenamed++
}

// IncrementAlreadyNamed increases the count of files skipped because they carry their target name.
func (s *Statistics) IncrementAlreadyNamed() {
	s.FilesAlreadyNamed++
}

// IncrementSkippedNoDate increases the count of files skipped for lack of a date by 1.
func (s *Statistics) IncrementSkippedNoDate() {
	s.FilesSkippedNoDate++
}

// IncrementRenameErrors increases the count of failed renames by 1.
func (s *Statistics) IncrementRenameErrors() {
	s.RenameErrors++
}

// IncrementCollisions increases the count of renames refused because the target exists.
func (s *Statistics) IncrementCollisions() {
	s.RenameCollisions++
}

// IncrementSimulated increases the count of dry-run renames by 1.
func (s *Statistics) IncrementSimulated() {
	s.RenamesSimulated++
}

// IncrementSuffixed increases the count of planned names carrying a collision suffix.
func (s *Statistics) IncrementSuffixed() {
	s.CollisionSuffixUsed++
}

// Finalize records the end time and duration.
func (s *Statistics) Finalize() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// AddError records an error that occurred during processing.
func (s *Statistics) AddError(filePath, operation, errorMsg string) {
	s.Errors = append(s.Errors, StatError{
		FilePath:  filePath,
		Operation: operation,
		Error:     errorMsg,
		Timestamp: time.Now(),
	})
}

// GetSummary returns a formatted summary of all statistics.
func (s *Statistics) GetSummary() string {
	return fmt.Sprintf(`Photo Renamer Statistics Summary:

Files:
		Found: %s
		Processed: %s
		Unprocessable: %s
		Bytes Scanned: %s

Audit:
		Matching: %s
		Mismatched: %s

Rename:
		Renamed: %s
		Already Named: %s
		Skipped (no date): %s
		Simulated: %s
		Suffixed: %s
		Collisions: %s
		Errors: %s

Performance:
		Duration: %v

%s

%s`,
		humanize.Comma(s.FilesFound),
		humanize.Comma(s.FilesProcessed),
		humanize.Comma(s.Unprocessable),
		humanize.Bytes(uint64(s.BytesScanned)),
		humanize.Comma(s.FilesMatched),
		humanize.Comma(s.FilesMismatch),
		humanize.Comma(s.FilesRenamed),
		humanize.Comma(s.FilesAlreadyNamed),
		humanize.Comma(s.FilesSkippedNoDate),
		humanize.Comma(s.RenamesSimulated),
		humanize.Comma(s.CollisionSuffixUsed),
		humanize.Comma(s.RenameCollisions),
		humanize.Comma(s.RenameErrors),
		s.Duration.Round(time.Millisecond),
		s.GetChosenFieldBreakdown(),
		strings.TrimRight(s.GetFileTypeBreakdown(), "\n"))
}

// GetChosenFieldBreakdown lists how many capture dates came from each field.
func (s *Statistics) GetChosenFieldBreakdown() string {
	if len(s.ChosenFrom) == 0 {
		return "Date Sources: none"
	}

	fields := make([]string, 0, len(s.ChosenFrom))
	for field := range s.ChosenFrom {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("Date Sources:\n")
	for _, field := range fields {
		fmt.Fprintf(&b, "\t\t%s: %d\n", field, s.ChosenFrom[field])
	}
	return strings.TrimRight(b.String(), "\n")
}

// GetFileTypeBreakdown returns a formatted breakdown of file types found.
func (s *Statistics) GetFileTypeBreakdown() string {
	if len(s.FileTypeStats) == 0 {
		return "No file type statistics available"
	}

	types := make([]string, 0, len(s.FileTypeStats))
	for fileType := range s.FileTypeStats {
		types = append(types, fileType)
	}
	sort.Strings(types)

	result := "File Type Breakdown:\n"
	for _, fileType := range types {
		result += fmt.Sprintf("  %s: %d\n", fileType, s.FileTypeStats[fileType])
	}
	return result
}

// GetErrorSummary returns a summary of errors that occurred during processing.
func (s *Statistics) GetErrorSummary() string {
	if len(s.Errors) == 0 {
		return "No errors occurred during processing"
	}

	result := fmt.Sprintf("Errors (%d total):\n", len(s.Errors))
	for i, err := range s.Errors {
		if i >= 10 {
			result += fmt.Sprintf("  ... and %d more errors\n", len(s.Errors)-10)
			break
		}
		result += fmt.Sprintf("  [%s] %s: %s - %s\n",
			err.Timestamp.Format("15:04:05"),
			err.Operation,
			err.FilePath,
			err.Error)
	}
	return result
}
