package extractor

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"photo-renamer/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exifJPEG builds a JPEG header with an APP1 segment holding IFD0 DateTime (306)
// and an Exif sub-IFD with DateTimeOriginal (36867).
func exifJPEG(dateTime, dateTimeOriginal string) []byte {
	le := binary.LittleEndian
	tiff := make([]byte, 96)
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], 8)

	// IFD0 at 8: DateTime, ExifIFD pointer
	le.PutUint16(tiff[8:], 2)
	entry := func(at int, tag, typ uint16, count, value uint32) {
		le.PutUint16(tiff[at:], tag)
		le.PutUint16(tiff[at+2:], typ)
		le.PutUint32(tiff[at+4:], count)
		le.PutUint32(tiff[at+8:], value)
	}
	entry(10, 306, 2, 20, 56)
	entry(22, 34665, 4, 1, 38)
	le.PutUint32(tiff[34:], 0)

	// Exif IFD at 38: DateTimeOriginal
	le.PutUint16(tiff[38:], 1)
	entry(40, 36867, 2, 20, 76)
	le.PutUint32(tiff[52:], 0)

	copy(tiff[56:76], dateTime+"\x00")
	copy(tiff[76:96], dateTimeOriginal+"\x00")

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	length := make([]byte, 2)
	binary.BigEndian.PutUint16(length, uint16(2+6+len(tiff)))
	buf.Write(length)
	buf.WriteString("Exif\x00\x00")
	buf.Write(tiff)
	buf.Write([]byte{0xFF, 0xD9})
	return buf.Bytes()
}

func box(typ []byte, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out, uint32(8+len(body)))
	copy(out[4:], typ)
	return append(out, body...)
}

func udtaWithDay(day string) []byte {
	data := box([]byte("data"), []byte{0, 0, 0, 1}, []byte{0, 0, 0, 0}, []byte(day))
	ilst := box([]byte("ilst"), box([]byte{0xA9, 'd', 'a', 'y'}, data))
	meta := box([]byte("meta"), []byte{0, 0, 0, 0}, ilst)
	return box([]byte("udta"), meta)
}

func mvhd(creationTime uint32) []byte {
	payload := make([]byte, 100)
	binary.BigEndian.PutUint32(payload[4:], creationTime)
	binary.BigEndian.PutUint32(payload[12:], 1000) // timescale
	binary.BigEndian.PutUint32(payload[20:], 0x00010000)
	return box([]byte("mvhd"), payload)
}

func ftyp() []byte {
	return box([]byte("ftyp"), []byte("isom"), []byte{0, 0, 2, 0})
}

// mp4WithDay builds ftyp + moov/udta/meta/ilst/©day/data.
func mp4WithDay(day string) []byte {
	return append(ftyp(), box([]byte("moov"), udtaWithDay(day))...)
}

// mp4WithMvhd builds ftyp + moov/mvhd (version 0) carrying creationTime.
func mp4WithMvhd(creationTime uint32) []byte {
	return append(ftyp(), box([]byte("moov"), mvhd(creationTime))...)
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestEXIFReaderReadsDateTags(t *testing.T) {
	path := writeFile(t, "a.jpg", exifJPEG("2019:01:01 00:00:00", "2021:05:01 10:00:00"))
	e := NewExtractor(logger.Discard(), "native", Readers{Image: NewEXIFReader(logger.Discard())})

	result, err := e.Extract(path, "jpg")
	require.NoError(t, err)
	assert.Equal(t, "20210501", result.Chosen)
	assert.Equal(t, FieldDateTimeOriginal, result.ChosenField)
	assert.Equal(t, []string{"20190101", "20210501"}, result.AllDates)
}

func TestEXIFReaderWithoutEXIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))
	path := writeFile(t, "plain.jpg", buf.Bytes())

	_, err := NewEXIFReader(logger.Discard()).ReadFields(path)
	assert.Error(t, err)
}

func TestEXIFReaderMissingFile(t *testing.T) {
	_, err := NewEXIFReader(logger.Discard()).ReadFields(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

func TestMP4ReaderReadsContentDay(t *testing.T) {
	path := writeFile(t, "clip.mp4", mp4WithDay("2022-03-15T10:00:00Z"))

	fields, err := NewMP4Reader().ReadFields(path)
	require.NoError(t, err)
	assert.Equal(t, "2022-03-15T10:00:00Z", fields[FieldContentDay])

	date, field := ChooseDate(fields, VideoFields)
	assert.Equal(t, "20220315", date)
	assert.Equal(t, FieldContentDay, field)
}

func TestMP4ReaderReadsDayAndMovieHeaderTogether(t *testing.T) {
	moov := box([]byte("moov"), mvhd(1580601600+mp4EpochOffset), udtaWithDay("2022-03-15"))
	path := writeFile(t, "clip.mov", append(ftyp(), moov...))

	e := NewExtractor(logger.Discard(), "native", Readers{Video: NewMP4Reader()})
	result, err := e.Extract(path, "mov")
	require.NoError(t, err)
	assert.Equal(t, "20220315", result.Chosen)
	assert.Equal(t, FieldContentDay, result.ChosenField)
	assert.Equal(t, "2020:02:02 00:00:00", result.Fields[FieldCreateDate])
	assert.Equal(t, []string{"20200202"}, result.AllDates)
}

func TestMP4ReaderWithoutContentDay(t *testing.T) {
	path := writeFile(t, "clip.mov", box([]byte("ftyp"), []byte("qt  "), []byte{0, 0, 0, 0}))

	fields, err := NewMP4Reader().ReadFields(path)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestMP4ReaderFallsBackToMovieHeader(t *testing.T) {
	// 2020-02-02 00:00:00 UTC counted from 1904
	path := writeFile(t, "clip.mov", mp4WithMvhd(1580601600+mp4EpochOffset))

	e := NewExtractor(logger.Discard(), "native", Readers{Video: NewMP4Reader()})
	result, err := e.Extract(path, "mov")
	require.NoError(t, err)
	assert.Equal(t, "20200202", result.Chosen)
	assert.Equal(t, FieldCreateDate, result.ChosenField)
}

func TestMP4ReaderIgnoresUnsetMovieHeader(t *testing.T) {
	path := writeFile(t, "clip.mp4", mp4WithMvhd(0))

	fields, err := NewMP4Reader().ReadFields(path)
	require.NoError(t, err)
	assert.NotContains(t, fields, FieldCreateDate)
}

func TestExiftoolReader(t *testing.T) {
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}

	path := writeFile(t, "a.jpg", exifJPEG("2019:01:01 00:00:00", "2021:05:01 10:00:00"))
	reader, err := NewExiftoolReader("")
	require.NoError(t, err)
	defer reader.Close()

	e := NewExtractor(logger.Discard(), "exiftool", Readers{Exiftool: reader})
	result, err := e.Extract(path, "jpg")
	require.NoError(t, err)
	assert.Equal(t, "20210501", result.Chosen)
	assert.Equal(t, FieldDateTimeOriginal, result.ChosenField)
	assert.Contains(t, result.AllDates, "20210501")
}

func TestExiftoolReaderBadBinary(t *testing.T) {
	_, err := NewExiftoolReader(filepath.Join(t.TempDir(), "no-exiftool"))
	assert.Error(t, err)
}
