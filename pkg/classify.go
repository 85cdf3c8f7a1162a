package pkg

import (
	"mime"
	"path/filepath"
	"strings"
)

// MediaType is the coarse classification of a candidate file, derived solely
// from its file extension.
type MediaType int

const (
	// MediaOther covers everything that is not an image or a video,
	// including files without an extension.
	MediaOther MediaType = iota
	MediaImage
	MediaVideo
)

func (m MediaType) String() string {
	switch m {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "other"
	}
}

// IsMedia reports whether the type participates in the date/camera pipeline.
func (m MediaType) IsMedia() bool {
	return m == MediaImage || m == MediaVideo
}

// imageExtensions maps common image file extensions to true.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
	".webp": true,
	".tif":  true,
	".tiff": true,
	".raw":  true,
	".cr2":  true,
	".nef":  true,
	".arw":  true,
	".orf":  true,
	".rw2":  true,
	".pef":  true,
	".raf":  true,
	".dng":  true,
	// Add more extensions if needed
}

// videoExtensions maps common video file extensions to true.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".qt":   true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".mts":  true,
	".m2ts": true,
	".3gp":  true,
}

// containerDateExtensions lists the video containers whose creation date can
// be read from the moov/mvhd box. Other video types skip straight to
// filesystem time.
var containerDateExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".m4v": true,
	".qt":  true,
}

// ClassifyFile classifies a path as image, video, or other by its extension.
// Extensions not in the built-in tables are resolved through the platform
// MIME registry so that uncommon but well-known media extensions still
// classify correctly. Files without an extension are always MediaOther.
func ClassifyFile(path string) MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return MediaOther
	}
	if imageExtensions[ext] {
		return MediaImage
	}
	if videoExtensions[ext] {
		return MediaVideo
	}
	switch mimeType := mime.TypeByExtension(ext); {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaImage
	case strings.HasPrefix(mimeType, "video/"):
		return MediaVideo
	}
	return MediaOther
}

// HasContainerDate reports whether the file's extension indicates an ISO BMFF
// container worth probing for an mvhd creation time.
func HasContainerDate(path string) bool {
	return containerDateExtensions[strings.ToLower(filepath.Ext(path))]
}
