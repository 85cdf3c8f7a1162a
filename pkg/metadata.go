package pkg

import (
	"fmt"
	"os"
	"time"

	"github.com/abema/go-mp4"
	"github.com/djherbis/times"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

// ErrNoExifDate is returned when EXIF data is found but no date tag is present.
var ErrNoExifDate = fmt.Errorf("no EXIF date tag found")

// ErrNoVideoDate is returned when a video container carries no usable
// creation time.
var ErrNoVideoDate = fmt.Errorf("no creation time in video container")

// ErrNoBirthTime is returned when the filesystem does not record a birth
// (creation) time for the file.
var ErrNoBirthTime = fmt.Errorf("filesystem birth time not available")

func init() {
	exif.RegisterParsers(mknote.All...)
}

// DateSource identifies which metadata source produced a capture timestamp.
type DateSource int

const (
	// SourceExifPrimary is the EXIF DateTimeOriginal tag.
	SourceExifPrimary DateSource = iota
	// SourceExifFallback is one of the secondary EXIF date tags
	// (DateTime or DateTimeDigitized).
	SourceExifFallback
	// SourceVideoContainer is the moov/mvhd creation time of an ISO BMFF file.
	SourceVideoContainer
	// SourceFilesystemModified is the file's modification time.
	SourceFilesystemModified
	// SourceFilesystemCreated is the file's birth time.
	SourceFilesystemCreated
)

func (s DateSource) String() string {
	switch s {
	case SourceExifPrimary:
		return "exif"
	case SourceExifFallback:
		return "exif-fallback"
	case SourceVideoContainer:
		return "video-container"
	case SourceFilesystemModified:
		return "fs-modified"
	case SourceFilesystemCreated:
		return "fs-created"
	default:
		return "unknown"
	}
}

// CaptureMetadata is the resolved capture timestamp for one file.
// The timestamp is always a valid civil datetime in UTC.
type CaptureMetadata struct {
	Timestamp time.Time
	Source    DateSource
}

// ResolveCapture determines the capture timestamp of a media file by trying,
// in order: EXIF date tags, the video container creation time (for ISO BMFF
// extensions only), and finally filesystem timestamps. Only a filesystem
// metadata failure is returned as an error; everything earlier in the chain
// falls through silently.
func ResolveCapture(path string, preferModified bool) (CaptureMetadata, error) {
	if ts, source, err := extractExifDate(path); err == nil {
		return CaptureMetadata{Timestamp: ts, Source: source}, nil
	}

	if HasContainerDate(path) {
		if ts, err := extractVideoDate(path); err == nil {
			return CaptureMetadata{Timestamp: ts, Source: SourceVideoContainer}, nil
		}
	}

	return filesystemDate(path, preferModified)
}

// exifDateTags are the EXIF date tags in priority order. Only the first tag
// actually present in the file is considered; if its value fails to parse the
// chain falls through to filesystem time rather than trying the next tag.
var exifDateTags = []struct {
	field  exif.FieldName
	source DateSource
}{
	{exif.DateTimeOriginal, SourceExifPrimary},
	{exif.DateTime, SourceExifFallback},
	{exif.DateTimeDigitized, SourceExifFallback},
}

// extractExifDate reads the highest-priority EXIF date tag present in the
// file. Failure to open or decode the container is non-fatal to the caller.
func extractExifDate(path string) (time.Time, DateSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("failed to decode EXIF data from %s: %w", path, err)
	}

	for _, dt := range exifDateTags {
		tag, err := x.Get(dt.field)
		if err != nil {
			continue // tag absent, try the next one
		}
		value, err := tag.StringVal()
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("failed to read EXIF tag %s in %s: %w", dt.field, path, err)
		}
		ts, err := parseExifTimestamp(value)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid EXIF date in %s: %w", path, err)
		}
		return ts, dt.source, nil
	}

	return time.Time{}, 0, ErrNoExifDate
}

// exifTimestampLayout is the fixed-width EXIF datetime pattern.
const exifTimestampLayout = "2006:01:02 15:04:05"

// parseExifTimestamp parses exactly the first 19 characters of an EXIF date
// value as "YYYY:MM:DD HH:MM:SS", interpreted as UTC. Short values,
// non-numeric fields, and invalid calendar dates are rejected.
func parseExifTimestamp(value string) (time.Time, error) {
	if len(value) < len(exifTimestampLayout) {
		return time.Time{}, fmt.Errorf("EXIF date %q is shorter than %d characters", value, len(exifTimestampLayout))
	}
	ts, err := time.ParseInLocation(exifTimestampLayout, value[:len(exifTimestampLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse EXIF date %q: %w", value, err)
	}
	return ts, nil
}

// appleEpochOffset is the number of seconds between the ISO BMFF epoch
// (1904-01-01) and the Unix epoch (1970-01-01).
const appleEpochOffset = 2082844800

// extractVideoDate reads the creation time from the moov/mvhd box of an ISO
// BMFF container. A panic inside the box parser is treated the same as a
// missing creation time, not propagated.
func extractVideoDate(path string) (ts time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("video metadata extraction failed for %s: %v", path, r)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(file, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read MP4 structure of %s: %w", path, err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		creation := mvhd.GetCreationTime()
		if creation == 0 {
			return time.Time{}, ErrNoVideoDate
		}
		t := time.Unix(int64(creation)-appleEpochOffset, 0).UTC()
		if t.Year() < 1970 {
			return time.Time{}, fmt.Errorf("mvhd creation time of %s predates the Unix epoch", path)
		}
		return t, nil
	}

	return time.Time{}, ErrNoVideoDate
}

// filesystemDate is the last resort of the fallback chain. Unlike the earlier
// sources, a failure here is fatal for the file and propagates to the caller.
func filesystemDate(path string, preferModified bool) (CaptureMetadata, error) {
	spec, err := times.Stat(path)
	if err != nil {
		return CaptureMetadata{}, fmt.Errorf("failed to read filesystem metadata for %s: %w", path, err)
	}

	if preferModified {
		return CaptureMetadata{
			Timestamp: spec.ModTime().UTC(),
			Source:    SourceFilesystemModified,
		}, nil
	}

	if !spec.HasBirthTime() {
		return CaptureMetadata{}, fmt.Errorf("failed to get creation time for %s: %w", path, ErrNoBirthTime)
	}
	return CaptureMetadata{
		Timestamp: spec.BirthTime().UTC(),
		Source:    SourceFilesystemCreated,
	}, nil
}
