package organizer

import (
	"path/filepath"
	"strings"
)

// photoExtensions is the allow-list of image extensions, without the dot.
var photoExtensions = map[string]bool{
	"jpg": true, "jpeg": true,
	"png":  true,
	"gif":  true,
	"bmp":  true,
	"tiff": true, "tif": true,
	"webp": true,
	"heic": true,

	// Raw Picture Types
	"raw": true, "cr2": true, "nef": true, "arw": true,
}

// IsPhoto reports whether name has one of the supported image extensions.
// Matching is case-insensitive.
func IsPhoto(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	return photoExtensions[ext[1:]] // Remove the leading dot
}
