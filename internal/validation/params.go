package validation

import (
	"fmt"
	"strconv"
	"time"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseTimeRange resolves a range query parameter ("1d", "7d", "30d", "90d")
// to a start time. Unknown values fall back to the default range.
func ParseTimeRange(value, defaultRange string) (time.Time, string) {
	if value == "" {
		value = defaultRange
	}

	ranges := map[string]time.Duration{
		"1d":  24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30d": 30 * 24 * time.Hour,
		"90d": 90 * 24 * time.Hour,
	}

	d, ok := ranges[value]
	if !ok {
		value = defaultRange
		if d, ok = ranges[value]; !ok {
			value = "7d"
			d = 7 * 24 * time.Hour
		}
	}

	return time.Now().Add(-d), value
}

// ParseLimit parses a limit query parameter with a default and a ceiling
func ParseLimit(value string, defaultLimit, maxLimit int) int {
	if value == "" {
		return defaultLimit
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultLimit
	}
	if parsed > maxLimit {
		return maxLimit
	}
	return parsed
}

// ParsePage parses a 1-based page query parameter
func ParsePage(value string) int {
	if value == "" {
		return 1
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return 1
	}
	return parsed
}
