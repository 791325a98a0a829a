package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil stays nil",
			input:    nil,
			expected: nil,
		},
		{
			name:     "trims parameters",
			input:    []string{" purpose=analysis ", "mode=batch"},
			expected: []string{"purpose=analysis", "mode=batch"},
		},
		{
			name:     "first occurrence wins",
			input:    []string{"COMMAND", "MUST", "COMMAND", " MUST"},
			expected: []string{"COMMAND", "MUST"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "OBJECT", "   "},
			expected: []string{"OBJECT"},
		},
		{
			name:     "case sensitive",
			input:    []string{"Object", "OBJECT"},
			expected: []string{"Object", "OBJECT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty value",
			input:    "",
			expected: []string{},
		},
		{
			name:     "blank value",
			input:    "  ,  ",
			expected: []string{},
		},
		{
			name:     "splits, trims and dedupes markers",
			input:    "MUST, COMMAND,,MUST ",
			expected: []string{"MUST", "COMMAND"},
		},
		{
			name:     "keeps case distinct",
			input:    "OBJECT,object",
			expected: []string{"OBJECT", "object"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
