package extractor

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Readers groups the metadata readers an Extractor may consult. Any may be nil.
type Readers struct {
	Exiftool MetadataReader
	Image    MetadataReader
	Video    MetadataReader
}

type strategy struct {
	reader MetadataReader
	fields []DateField
}

// Extractor picks a capture date for a file by asking its readers and
// walking a fixed field priority list.
type Extractor struct {
	logger  *logrus.Logger
	source  string
	readers Readers
}

// NewExtractor returns an Extractor for the given source ("exiftool", "native" or "auto").
func NewExtractor(logger *logrus.Logger, source string, readers Readers) *Extractor {
	return &Extractor{
		logger:  logger,
		source:  source,
		readers: readers,
	}
}

// ExtractCandidateDates returns the chosen date and the audit set of all dates.
// On reader failure both are empty and err is set.
func (e *Extractor) ExtractCandidateDates(filePath, extension string) (string, []string, error) {
	result, err := e.Extract(filePath, extension)
	if err != nil {
		return "", nil, err
	}
	return result.Chosen, result.AllDates, nil
}

// Extract reads metadata for filePath and selects its capture date.
// A file with readable metadata but no recognized field yields a Result
// without a chosen date and a nil error.
func (e *Extractor) Extract(filePath, extension string) (Result, error) {
	strategies := e.strategies(extension)
	if len(strategies) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedExtension, extension)
	}

	var (
		fallback *Result
		lastErr  error
	)
	for _, s := range strategies {
		fields, err := s.reader.ReadFields(filePath)
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"file":   filePath,
				"reader": s.reader.Name(),
			}).Debugf("Metadata read failed: %v", err)
			lastErr = err
			continue
		}

		date, field := ChooseDate(fields, s.fields)
		result := Result{
			Chosen:      date,
			ChosenField: field,
			AllDates:    CandidateDates(fields),
			Fields:      fields,
			Reader:      s.reader.Name(),
		}
		if result.HasDate() {
			return result, nil
		}
		fallback = &result
	}

	if fallback == nil {
		return Result{}, fmt.Errorf("read metadata for %s: %w", filepath.Base(filePath), lastErr)
	}

	e.logger.WithField("file", filePath).Infof("Date not found in file: %s", filepath.Base(filePath))
	return *fallback, nil
}

// Close releases readers holding external processes.
func (e *Extractor) Close() error {
	var firstErr error
	for _, r := range []MetadataReader{e.readers.Exiftool, e.readers.Image, e.readers.Video} {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// strategies returns the readers to try for an extension, in order.
func (e *Extractor) strategies(extension string) []strategy {
	var native []strategy
	switch FileTypeFor(extension) {
	case FileTypeImage:
		if e.readers.Image != nil {
			native = append(native, strategy{reader: e.readers.Image, fields: ImageFields})
		}
	case FileTypeVideo:
		if e.readers.Video != nil {
			native = append(native, strategy{reader: e.readers.Video, fields: VideoFields})
		}
	}

	var tool []strategy
	if e.readers.Exiftool != nil {
		tool = append(tool, strategy{reader: e.readers.Exiftool, fields: ExiftoolFields})
	}

	switch e.source {
	case "native":
		return native
	case "auto":
		return append(native, tool...)
	default:
		return tool
	}
}
