package extractor

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/barasher/go-exiftool"
)

// ExiftoolReader wraps a long-running exiftool process.
type ExiftoolReader struct {
	et *exiftool.Exiftool
	mu sync.Mutex
}

// NewExiftoolReader starts exiftool. An empty binaryPath looks it up in $PATH.
func NewExiftoolReader(binaryPath string) (*ExiftoolReader, error) {
	var opts []func(*exiftool.Exiftool) error
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}

	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	return &ExiftoolReader{et: et}, nil
}

// Name returns the reader name.
func (r *ExiftoolReader) Name() string {
	return "exiftool"
}

// ReadFields returns every tag exiftool reports for the file, stringified.
func (r *ExiftoolReader) ReadFields(filePath string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := r.et.ExtractMetadata(filePath)
	if len(infos) == 0 {
		return nil, ErrNoMetadata
	}
	if infos[0].Err != nil {
		return nil, fmt.Errorf("exiftool failed: %w", infos[0].Err)
	}

	return stringifyFields(infos[0].Fields), nil
}

// Close terminates the exiftool process.
func (r *ExiftoolReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.et.Close()
}

// stringifyFields flattens exiftool's JSON values into strings.
func stringifyFields(raw map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			fields[name] = v
		case float64:
			fields[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[name] = strconv.FormatBool(v)
		default:
			fields[name] = fmt.Sprint(v)
		}
	}
	return fields
}

// unavailableReader stands in for a reader that could not be started,
// so every file fails on its own instead of aborting the batch.
type unavailableReader struct {
	name string
	err  error
}

// UnavailableReader returns a reader that fails every call with err.
func UnavailableReader(name string, err error) MetadataReader {
	return &unavailableReader{name: name, err: err}
}

func (r *unavailableReader) Name() string {
	return r.name
}

func (r *unavailableReader) ReadFields(string) (map[string]string, error) {
	return nil, r.err
}
