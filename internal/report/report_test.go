package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"photo-renamer/internal/reconciler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleRows = []reconciler.ReconciliationResult{
	{
		Filename:              "20200101_vacation.jpg",
		Extension:             "jpg",
		FilesystemCreatedDate: "20200110",
		ChosenTakenDate:       "20200105",
		AllCandidateDates:     []string{"20200105", "20200110"},
		Fields: map[string]string{
			"DateTimeOriginal":   "2020:01:05 12:00:00",
			"FileCreateDate":     "2020:01:10 08:00:00+01:00",
			"OffsetTimeOriginal": "+01:00",
		},
	},
	{
		Filename:              "broken.heic",
		Extension:             "heic",
		FilesystemCreatedDate: "20231111",
		Unprocessable:         true,
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows))

	want := "filename;file_ext;creation_dt;taken_dt\n" +
		"20200101_vacation.jpg;jpg;20200110;20200105\n" +
		"broken.heic;heic;20231111;\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "filename;file_ext;creation_dt;taken_dt\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	require.NoError(t, Write(path, "xlsx", sampleRows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"metadata", "possible_dates", "filename",
		"FileCreateDate", "CreationDate", "DateTimeOriginal",
		"DateCreated", "ContentCreateDate", "MediaCreateDate", "OffsetTimeOriginal",
	}, rows[0])

	first := rows[1]
	var metadata map[string]string
	require.NoError(t, json.Unmarshal([]byte(first[0]), &metadata))
	assert.Equal(t, sampleRows[0].Fields, metadata)
	assert.Equal(t, "[20200105, 20200110]", first[1])
	assert.Equal(t, "20200101_vacation.jpg", first[2])
	assert.Equal(t, "2020:01:10 08:00:00+01:00", first[3])
	assert.Equal(t, "2020:01:05 12:00:00", first[5])
	assert.Equal(t, "+01:00", first[9])

	// GetRows trims trailing empty cells
	assert.Equal(t, "broken.heic", rows[2][2])
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "check_photos.csv")
	require.NoError(t, Write(path, "csv", sampleRows[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "20200101_vacation.jpg;jpg;20200110;20200105")
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(filepath.Join(t.TempDir(), "x"), "ods", nil))
}

func TestWriteXLSXTruncatesOversizedMetadata(t *testing.T) {
	rows := []reconciler.ReconciliationResult{{
		Filename:  "huge.jpg",
		Extension: "jpg",
		Fields: map[string]string{
			"ThumbnailImage": strings.Repeat("é", excelize.TotalCellChars),
		},
	}}
	path := filepath.Join(t.TempDir(), "audit.xlsx")
	require.NoError(t, Write(path, "xlsx", rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	metadata, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, excelize.TotalCellChars, utf8.RuneCountInString(metadata))

	name, err := f.GetCellValue(sheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "huge.jpg", name)
}
