package utils

import (
	"path"
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeFileStem strips the extension, replaces unsafe characters with '-'
// and caps the result at 50 characters.
func SanitizeFileStem(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	stem = unsafeFileChars.ReplaceAllString(stem, "-")
	if len(stem) > 50 {
		stem = stem[:50]
	}
	return stem
}

// FileExt returns the lowercased extension without the dot, or fallback.
func FileExt(name, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "" {
		return fallback
	}
	return ext
}
