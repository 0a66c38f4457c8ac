package extractor

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedExtension is returned when no reader handles a file type.
	ErrUnsupportedExtension = errors.New("file type not supported by extractor")
	// ErrNoMetadata is returned when a reader produced nothing for a file.
	ErrNoMetadata = errors.New("no metadata returned")
)

// DateExtractor is the interface the reconciler uses to obtain capture dates.
type DateExtractor interface {
	Extract(filePath, extension string) (Result, error)
}

// MetadataReader returns the raw field name -> value mapping for one file.
type MetadataReader interface {
	ReadFields(filePath string) (map[string]string, error)
	Name() string
}

// Result holds everything extracted for one file.
type Result struct {
	Chosen      string            // YYYYMMDD, empty when no priority field is present
	ChosenField string            // field Chosen was taken from
	AllDates    []string          // every date-like field, normalized, sorted, deduplicated
	Fields      map[string]string // raw metadata as returned by the reader
	Reader      string            // reader that produced Fields
}

// HasDate reports whether a capture date was chosen.
func (r Result) HasDate() bool {
	return r.Chosen != ""
}

// FileType represents the type of file being processed.
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeImage
	FileTypeVideo
)

var (
	imageExtensions = []string{"jpg", "jpeg", "png", "heic", "heif", "tif", "tiff"}
	videoExtensions = []string{"mp4", "mov", "m4v"}
)

// FileTypeFor classifies a lowercase extension token (no dot).
func FileTypeFor(extension string) FileType {
	extension = strings.TrimPrefix(strings.ToLower(extension), ".")
	for _, ext := range imageExtensions {
		if ext == extension {
			return FileTypeImage
		}
	}
	for _, ext := range videoExtensions {
		if ext == extension {
			return FileTypeVideo
		}
	}
	return FileTypeUnknown
}

// String returns the string representation of the FileType.
func (ft FileType) String() string {
	switch ft {
	case FileTypeImage:
		return "Image"
	case FileTypeVideo:
		return "Video"
	default:
		return "Unknown"
	}
}

// IsImage reports whether the file type is an image.
func (ft FileType) IsImage() bool {
	return ft == FileTypeImage
}

// IsVideo reports whether the file type is a video.
func (ft FileType) IsVideo() bool {
	return ft == FileTypeVideo
}
