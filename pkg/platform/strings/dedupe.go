// Package strings holds list helpers for flag and environment values.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value and drops blanks and repeats, keeping the
// first occurrence.
//
//	DedupeAndTrim([]string{" OBJECT ", "MUST", "OBJECT", ""})
//	// []string{"OBJECT", "MUST"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitList splits a comma-separated value and applies DedupeAndTrim.
// A blank value yields an empty, non-nil slice.
//
//	SplitList("MUST, COMMAND,,MUST")
//	// []string{"MUST", "COMMAND"}
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	return DedupeAndTrim(strings.Split(value, ","))
}
