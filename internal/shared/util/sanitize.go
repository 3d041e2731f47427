package util

import (
	"strings"
	"unicode"
)

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\"", "", "..", "_")

// SanitizeFileName makes name safe to use as a single path element: path
// separators and traversal sequences become underscores, quotes and control
// characters are dropped. A blank result yields fallback.
func SanitizeFileName(name, fallback string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	s = strings.TrimSpace(fileNameReplacer.Replace(s))
	if s == "" {
		return fallback
	}
	return s
}
