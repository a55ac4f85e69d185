package organizer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// exifDateLayout is the fixed-width "YYYY:MM:DD HH:MM:SS" EXIF format.
const exifDateLayout = "2006:01:02 15:04:05"

// exifDateTags are tried in order; the first one that parses wins.
var exifDateTags = []exif.FieldName{
	exif.DateTime,
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
}

var errNoDateTag = errors.New("no parseable date tag")

// DateResolver determines the capture time of a photo.
type DateResolver struct {
	fs  afero.Fs
	log zerolog.Logger
	now func() time.Time
}

func NewDateResolver(fs afero.Fs, logger zerolog.Logger) *DateResolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DateResolver{fs: fs, log: logger, now: time.Now}
}

// Resolve returns the best known capture time for path: the embedded EXIF
// date, else the modification time, else the current time. It never fails.
func (r *DateResolver) Resolve(path string) time.Time {
	t, err := r.extractCreationDateTimeFromMetadata(path)
	if err == nil {
		return t
	}
	r.log.Debug().Err(err).Str("path", path).Msg("no metadata date, using modification time")

	info, err := r.fs.Stat(path)
	if err == nil && !info.ModTime().IsZero() {
		return info.ModTime()
	}
	r.log.Debug().Err(err).Str("path", path).Msg("no modification time, using current time")
	return r.now()
}

func (r *DateResolver) extractCreationDateTimeFromMetadata(path string) (t time.Time, err error) {
	// Malformed files have been known to panic inside the decoder.
	defer func() {
		if p := recover(); p != nil {
			t, err = time.Time{}, fmt.Errorf("decoding exif: %v", p)
		}
	}()

	f, err := r.fs.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	// goexif returns a partially decoded result alongside sub-IFD errors.
	x, err := exif.Decode(f)
	if x == nil {
		return time.Time{}, fmt.Errorf("decoding exif: %w", err)
	}

	for _, name := range exifDateTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.ParseInLocation(exifDateLayout, strings.TrimSpace(value), time.Local)
		if err != nil {
			r.log.Debug().Str("path", path).Str("tag", string(name)).Str("value", value).Msg("unparseable exif date")
			continue
		}
		return t, nil
	}

	return time.Time{}, errNoDateTag
}
