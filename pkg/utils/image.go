package utils

import (
	"mime"
	"strings"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether contentType is a raster image we accept
// for upload. SVG is rejected since it can carry script.
func IsAllowedImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	return allowedImageTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}
