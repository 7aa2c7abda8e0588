package util

import (
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"artschool-backend/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename cleans an uploaded photo's original filename so it is
// safe to store and echo back. Control and invisible Unicode characters are
// stripped, path-significant characters replaced.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.New("INVALID_FILENAME", "filename cannot be empty", "", http.StatusBadRequest)
	}

	if strings.Contains(trimmed, "\x00") {
		return "", apierror.New("INVALID_FILENAME", "filename contains null bytes", trimmed, http.StatusBadRequest)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", apierror.New("INVALID_FILENAME", "filename is invalid after sanitization", trimmed, http.StatusBadRequest)
	}

	// Truncate by runes to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > 255 {
		cleaned = string(runes[:255])
	}

	return cleaned, nil
}
