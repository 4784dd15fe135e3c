package util

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// GetEnvironmentFloat returns fallback when the variable is unset or not a number
func GetEnvironmentFloat(env map[string]string, key string, fallback float64) float64 {
	if env[key] == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(env[key], 64)
	if err != nil {
		return fallback
	}

	return parsed
}
