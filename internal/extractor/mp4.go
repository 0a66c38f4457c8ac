package extractor

import (
	"fmt"
	"io"
	"os"
	"time"

	mp4 "github.com/abema/go-mp4"
)

// contentDayBox is the iTunes-style "©day" item.
var contentDayBox = mp4.BoxType{0xA9, 'd', 'a', 'y'}

// seconds between 1904-01-01 and 1970-01-01
const mp4EpochOffset = 2082844800

// MP4Reader reads the content creation day from MP4/MOV containers.
type MP4Reader struct{}

// NewMP4Reader returns a new MP4Reader.
func NewMP4Reader() *MP4Reader {
	return &MP4Reader{}
}

// Name returns the reader name.
func (r *MP4Reader) Name() string {
	return "mp4"
}

// ReadFields returns the moov/udta/meta/ilst ©day value and the movie header
// creation time, whichever are present.
func (r *MP4Reader) ReadFields(filePath string) (map[string]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	infos, err := mp4.ExtractBoxes(file, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
		{mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta(), mp4.BoxTypeIlst(), contentDayBox, mp4.BoxTypeData()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read mp4 boxes: %w", err)
	}

	fields := make(map[string]string, 2)
	for _, bi := range infos {
		// the ilst data box only decodes with the context found while walking
		payload, err := unmarshalBox(file, bi)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s box: %w", bi.Type, err)
		}

		switch box := payload.(type) {
		case *mp4.Data:
			if _, seen := fields[FieldContentDay]; !seen && len(box.Data) > 0 {
				fields[FieldContentDay] = string(box.Data)
			}
		case *mp4.Mvhd:
			// zero means the muxer never set it
			if ct := box.GetCreationTime(); ct > mp4EpochOffset {
				created := time.Unix(int64(ct)-mp4EpochOffset, 0).UTC()
				fields[FieldCreateDate] = created.Format("2006:01:02 15:04:05")
			}
		}
	}

	return fields, nil
}

func unmarshalBox(r io.ReadSeeker, bi *mp4.BoxInfo) (mp4.IBox, error) {
	if _, err := bi.SeekToPayload(r); err != nil {
		return nil, err
	}
	box, _, err := mp4.UnmarshalAny(r, bi.Type, bi.Size-bi.HeaderSize, bi.Context)
	return box, err
}
