package reconciler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/djherbis/times"
)

// ErrNotDirectory is the one fatal condition: the target directory is unusable.
var ErrNotDirectory = errors.New("directory does not exist")

// MediaFile represents one file under the target directory.
type MediaFile struct {
	Path                  string
	Name                  string
	Extension             string // lowercase, no dot
	FilesystemCreatedDate string // YYYYMMDD
	Size                  int64

	ChosenTakenDate   string
	ChosenField       string
	AllCandidateDates []string
	Fields            map[string]string
	Reader            string
	Unprocessable     bool
	Reason            string
}

// ScanDirectory lists the regular, non-hidden files directly under dir,
// in name order. Subdirectories are not descended into.
func ScanDirectory(dir string) ([]MediaFile, []error, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrNotDirectory, dir, err)
	}

	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var (
		files   []MediaFile
		skipped []error
	)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("stat %s: %w", name, err))
			continue
		}

		path := filepath.Join(absDir, name)
		files = append(files, MediaFile{
			Path:                  path,
			Name:                  name,
			Extension:             strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
			FilesystemCreatedDate: createdDate(path, info),
			Size:                  info.Size(),
		})
	}

	return files, skipped, nil
}

// createdDate prefers the birth time, then the inode change time, then mtime.
func createdDate(path string, info fs.FileInfo) string {
	created := info.ModTime()
	if ts, err := times.Stat(path); err == nil {
		switch {
		case ts.HasBirthTime():
			created = ts.BirthTime()
		case ts.HasChangeTime():
			created = ts.ChangeTime()
		}
	}
	return created.Format("20060102")
}

// sortByChosenDate returns a copy ordered by chosen date; ties keep listing order.
func sortByChosenDate(files []MediaFile) []MediaFile {
	sorted := slices.Clone(files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChosenTakenDate < sorted[j].ChosenTakenDate
	})
	return sorted
}
