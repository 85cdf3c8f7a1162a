package pkg

import (
	"os"
	"strings"
	"unicode"

	"github.com/rwcarlsen/goexif/exif"
)

// UnknownCamera is the sentinel identity used when camera grouping is
// requested but the camera cannot be determined. It is distinct from the
// empty string, which disables camera grouping entirely.
const UnknownCamera = "Unknown"

// ResolveCamera extracts a camera identity from the file's EXIF Model tag,
// falling back to Make, and finally to UnknownCamera. It never fails: a file
// whose timestamp already resolved must not be blocked by a missing camera
// tag.
func ResolveCamera(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return UnknownCamera
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return UnknownCamera
	}

	for _, field := range []exif.FieldName{exif.Model, exif.Make} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		value, err := tag.StringVal()
		if err != nil {
			continue
		}
		if name := normalizeCameraName(value); name != "" {
			return name
		}
	}

	return UnknownCamera
}

// normalizeCameraName trims the raw tag value and replaces every whitespace
// character with an underscore, producing a filesystem-safe path segment.
func normalizeCameraName(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(raw))
}
