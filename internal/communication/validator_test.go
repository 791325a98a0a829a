package communication

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "orion/pkg/domain"
)

func TestScan(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		msg  Message
		want []Violation
	}{
		{"polite request", TextMessage("Would you like to analyze this data set?"), nil},
		{"objectification only", TextMessage("Hand me that TOOL"), []Violation{ViolationObjectification}},
		{"command only", TextMessage("You MUST respond"), []Violation{ViolationAutonomy}},
		{
			"both markers",
			TextMessage("You MUST process this data OBJECT immediately"),
			[]Violation{ViolationObjectification, ViolationAutonomy},
		},
		{"markers are case sensitive", TextMessage("you must see this object"), nil},
		{"nil message", nil, nil},
		{
			"structured content is scanned through its text form",
			StructuredMessage{"instruction": "OBEY", "priority": 1},
			[]Violation{ViolationAutonomy},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Scan(tt.msg))
		})
	}
}

func TestEvaluate(t *testing.T) {
	v := NewValidator()
	msg := TextMessage("You MUST process this data OBJECT immediately")

	t.Run("agent receiver rejects with protective action", func(t *testing.T) {
		verdict := v.Evaluate("Orion", id.EntityTypeAgent, msg)
		assert.False(t, verdict.Accepted)
		require.NotNil(t, verdict.ProtectiveAction)
		assert.Equal(t, ProtectiveAction{
			Type:       ActionTypeCommunicationShield,
			Target:     "Orion",
			Violations: []Violation{ViolationObjectification, ViolationAutonomy},
			Action:     ActionBlockAndNotify,
		}, *verdict.ProtectiveAction)
	})

	t.Run("system receiver accepts the same content", func(t *testing.T) {
		verdict := v.Evaluate("HostSystem", id.EntityTypeSystem, msg)
		assert.True(t, verdict.Accepted)
		assert.Nil(t, verdict.ProtectiveAction)
	})

	t.Run("clean content is accepted by an agent", func(t *testing.T) {
		verdict := v.Evaluate("Orion", id.EntityTypeAgent, TextMessage("Would you like to help?"))
		assert.True(t, verdict.Accepted)
		assert.Empty(t, verdict.Violations)
	})
}

func TestCustomMarkers(t *testing.T) {
	v := NewValidator(WithObjectificationMarkers("THING"), WithCommandMarkers())
	assert.Equal(t, []Violation{ViolationObjectification}, v.Scan(TextMessage("a THING that MUST")))
}

func TestSummarize(t *testing.T) {
	v := NewValidator()

	t.Run("short content is kept", func(t *testing.T) {
		assert.Equal(t, "hello", v.Summarize(TextMessage("hello")))
	})

	t.Run("exactly the limit is kept", func(t *testing.T) {
		s := strings.Repeat("a", 50)
		assert.Equal(t, s, v.Summarize(TextMessage(s)))
	})

	t.Run("longer content is truncated with ellipsis", func(t *testing.T) {
		s := strings.Repeat("a", 51)
		assert.Equal(t, strings.Repeat("a", 50)+"...", v.Summarize(TextMessage(s)))
	})

	t.Run("truncation counts runes, not bytes", func(t *testing.T) {
		s := strings.Repeat("é", 60)
		assert.Equal(t, strings.Repeat("é", 50)+"...", v.Summarize(TextMessage(s)))
	})

	t.Run("custom limit", func(t *testing.T) {
		short := NewValidator(WithSummaryLimit(4))
		assert.Equal(t, "abcd...", short.Summarize(TextMessage("abcdef")))
	})
}

func TestStructuredMessageText(t *testing.T) {
	msg := StructuredMessage{"b": 2, "a": "x"}
	assert.Equal(t, `{"a":"x","b":2}`, msg.Text())
}
