package util

import "strings"

// IsImageMIME reports whether a sniffed content type is any image format.
func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}

// IsDecodableImageMIME reports whether the thumbnail pipeline can decode the
// format (stdlib decoders plus the x/image ones registered by the album
// service).
func IsDecodableImageMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}
