package extractor

import (
	"sort"
	"strings"
)

// Field names produced by the readers.
const (
	FieldDateTimeOriginal  = "DateTimeOriginal"
	FieldCreationDate      = "CreationDate"
	FieldMediaCreateDate   = "MediaCreateDate"
	FieldFileCreateDate    = "FileCreateDate"
	FieldDateCreated       = "DateCreated"
	FieldContentCreateDate = "ContentCreateDate"
	FieldOffsetTimeOrig    = "OffsetTimeOriginal"
	FieldDateTime          = "DateTime"
	FieldContentDay        = "©day"
	FieldCreateDate        = "CreateDate"
)

// DateField is one entry of a priority list: a field name and how to turn its value into a date.
type DateField struct {
	Name  string
	Parse func(value string) (string, bool)
}

// ExiftoolFields is the priority order for exiftool output.
var ExiftoolFields = []DateField{
	{Name: FieldDateTimeOriginal, Parse: parseTruncated},
	{Name: FieldCreationDate, Parse: parseTruncated},
	{Name: FieldMediaCreateDate, Parse: parseTruncated},
	{Name: FieldFileCreateDate, Parse: parseTruncated},
	{Name: FieldDateCreated, Parse: parseTruncated},
	{Name: FieldContentCreateDate, Parse: parseTruncated},
}

// ImageFields is the priority order for EXIF tags 36867 and 306.
var ImageFields = []DateField{
	{Name: FieldDateTimeOriginal, Parse: parseTruncated},
	{Name: FieldDateTime, Parse: parseTruncated},
}

// VideoFields is the priority order for MP4/MOV item lists, then the movie header.
var VideoFields = []DateField{
	{Name: FieldContentDay, Parse: parseTruncated},
	{Name: FieldCreateDate, Parse: parseTruncated},
}

var dateSeparators = strings.NewReplacer(":", "", "-", "")

// NormalizeDate keeps the first 10 characters of a metadata timestamp and
// drops the separators, so "2021:05:01 10:00:00" becomes "20210501".
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 10 {
		value = value[:10]
	}
	return dateSeparators.Replace(value)
}

func parseTruncated(value string) (string, bool) {
	date := NormalizeDate(value)
	return date, date != ""
}

// ChooseDate walks priority and returns the first field with a usable value.
// A field that is present but empty does not stop the walk.
func ChooseDate(fields map[string]string, priority []DateField) (date, field string) {
	for _, df := range priority {
		value, ok := fields[df.Name]
		if !ok {
			continue
		}
		if date, ok := df.Parse(value); ok {
			return date, df.Name
		}
	}
	return "", ""
}

// CandidateDates collects every field whose name mentions "date", normalized.
// The result is sorted and free of duplicates.
func CandidateDates(fields map[string]string) []string {
	seen := make(map[string]struct{})
	for name, value := range fields {
		if !strings.Contains(strings.ToLower(name), "date") {
			continue
		}
		date := NormalizeDate(value)
		if date == "" {
			continue
		}
		seen[date] = struct{}{}
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
