package util

import (
	"strings"
	"unicode/utf8"
)

var filenameReplacer = strings.NewReplacer(
	" ", "_",
	":", "-",
	"/", "_",
	"\\", "_",
)

// SanitiseFilename swaps characters that break common filesystems or paths
func SanitiseFilename(s string) string {
	return filenameReplacer.Replace(s)
}

// TrimString shortens s to at most length bytes without splitting a UTF-8 character
func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	cut := length
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}
