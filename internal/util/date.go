package util

import (
	"regexp"
	"strings"
	"time"
)

const regDateLayout = "02.01.2006"

var regDatePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)

// FormatRegDate renders a registration timestamp in the display format used
// throughout the app (day.month.year).
func FormatRegDate(t time.Time) string {
	return t.Format(regDateLayout)
}

// NormalizeRegDate converts legacy registration-date strings to DD.MM.YYYY.
// Values already in that format pass through; ISO dates and RFC 3339
// timestamps are reformatted; anything unparseable becomes an empty string.
func NormalizeRegDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if regDatePattern.MatchString(trimmed) {
		return trimmed
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format(regDateLayout)
		}
	}

	return ""
}
