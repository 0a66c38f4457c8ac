package extractor

import (
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/sirupsen/logrus"
)

// imageTags maps the EXIF tag numbers we read to goexif field names.
var imageTags = []struct {
	id    uint16
	field exif.FieldName
}{
	{36867, exif.DateTimeOriginal},
	{306, exif.DateTime},
}

// EXIFReader reads capture dates from image files using EXIF metadata.
type EXIFReader struct {
	logger *logrus.Logger
}

// NewEXIFReader returns a new EXIFReader.
func NewEXIFReader(logger *logrus.Logger) *EXIFReader {
	return &EXIFReader{logger: logger}
}

// Name returns the reader name.
func (r *EXIFReader) Name() string {
	return "exif"
}

// ReadFields decodes the EXIF block and returns the date tags it carries,
// keyed by their EXIF names.
func (r *EXIFReader) ReadFields(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF: %w", err)
	}

	fields := make(map[string]string, len(imageTags))
	for _, t := range imageTags {
		tag, err := x.Get(t.field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			r.logger.Debugf("EXIF tag %d is not a string in %s: %v", t.id, filePath, err)
			continue
		}
		fields[string(t.field)] = value
	}

	return fields, nil
}
