package util

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitiseFilename(t *testing.T) {
	assert.Equal(t, "GeoTracker_Morning_Run_2024-01-05.gpx", SanitiseFilename("GeoTracker_Morning Run_2024:01:05.gpx"))
	assert.Equal(t, "a_b_c", SanitiseFilename("a/b\\c"))
	assert.Equal(t, "plain", SanitiseFilename("plain"))
}

func TestTrimString(t *testing.T) {
	assert.Equal(t, "abc", TrimString("abcdef", 3))
	assert.Equal(t, "ab", TrimString("ab", 3))

	// "é" is two bytes, cutting after its first byte keeps the text valid
	trimmed := TrimString("Café run", 4)
	assert.Equal(t, "Caf", trimmed)
	assert.True(t, utf8.ValidString(trimmed))
	assert.Equal(t, "Café", TrimString("Café run", 5))
}

func TestGetEnvironmentFloat(t *testing.T) {
	env := map[string]string{"DENSITY": "2.5", "BROKEN": "abc"}

	assert.Equal(t, 2.5, GetEnvironmentFloat(env, "DENSITY", 1))
	assert.Equal(t, 1.0, GetEnvironmentFloat(env, "BROKEN", 1))
	assert.Equal(t, 3.0, GetEnvironmentFloat(env, "MISSING", 3))
}
