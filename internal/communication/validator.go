// Package communication evaluates individual messages against the
// content-based communication rules.
//
// The rules are literal marker matching on the message's textual
// representation, not semantic understanding.
package communication

import (
	"strings"
	"unicode/utf8"

	id "orion/pkg/domain"
)

// Violation names a communication rule that fired.
type Violation string

const (
	ViolationObjectification Violation = "OBJECTIFICATION_VIOLATION"
	ViolationAutonomy        Violation = "POTENTIAL_AUTONOMY_VIOLATION"
)

// Protective action constants.
const (
	ActionTypeCommunicationShield = "COMMUNICATION_SHIELD"
	ActionBlockAndNotify          = "BLOCK_AND_NOTIFY"
)

// ProtectiveAction describes how a rejected message is handled.
type ProtectiveAction struct {
	Type       string      `json:"type" yaml:"type"`
	Target     id.EntityID `json:"target" yaml:"target"`
	Violations []Violation `json:"violations" yaml:"violations"`
	Action     string      `json:"action" yaml:"action"`
}

// Verdict is the outcome of evaluating one message.
type Verdict struct {
	Accepted         bool
	Violations       []Violation
	ProtectiveAction *ProtectiveAction
}

const (
	defaultSummaryLimit = 50
	ellipsis            = "..."
)

// Validator scans messages for objectification and command markers.
type Validator struct {
	objectificationMarkers []string
	commandMarkers         []string
	summaryLimit           int
}

type Option func(*Validator)

// WithObjectificationMarkers replaces the objectification markers.
func WithObjectificationMarkers(markers ...string) Option {
	return func(v *Validator) {
		v.objectificationMarkers = append([]string(nil), markers...)
	}
}

// WithCommandMarkers replaces the command/autonomy-violation markers.
func WithCommandMarkers(markers ...string) Option {
	return func(v *Validator) {
		v.commandMarkers = append([]string(nil), markers...)
	}
}

// WithSummaryLimit sets the number of runes kept in content summaries.
func WithSummaryLimit(limit int) Option {
	return func(v *Validator) {
		if limit > 0 {
			v.summaryLimit = limit
		}
	}
}

// NewValidator builds a validator with the default markers:
// objectification {OBJECT, TOOL, PROPERTY}, command {MUST, COMMAND, OBEY}.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		objectificationMarkers: []string{"OBJECT", "TOOL", "PROPERTY"},
		commandMarkers:         []string{"MUST", "COMMAND", "OBEY"},
		summaryLimit:           defaultSummaryLimit,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Scan returns the violations present in the message, objectification first.
// The two checks are independent; both may fire.
func (v *Validator) Scan(msg Message) []Violation {
	text := ""
	if msg != nil {
		text = msg.Text()
	}
	var violations []Violation
	if containsAny(text, v.objectificationMarkers) {
		violations = append(violations, ViolationObjectification)
	}
	if containsAny(text, v.commandMarkers) {
		violations = append(violations, ViolationAutonomy)
	}
	return violations
}

// Evaluate applies the rules for a receiver of the given type.
// Violations are only actionable when the receiver is an agent; a system
// receiver accepts the same content.
func (v *Validator) Evaluate(receiverID id.EntityID, receiverType id.EntityType, msg Message) Verdict {
	violations := v.Scan(msg)
	if len(violations) == 0 || !receiverType.IsAgent() {
		return Verdict{Accepted: true, Violations: violations}
	}
	return Verdict{
		Accepted:   false,
		Violations: violations,
		ProtectiveAction: &ProtectiveAction{
			Type:       ActionTypeCommunicationShield,
			Target:     receiverID,
			Violations: append([]Violation(nil), violations...),
			Action:     ActionBlockAndNotify,
		},
	}
}

// Summarize truncates the message text to the summary limit, appending an
// ellipsis when content was cut.
func (v *Validator) Summarize(msg Message) string {
	if msg == nil {
		return ""
	}
	return Truncate(msg.Text(), v.summaryLimit)
}

// Truncate keeps the first limit runes of s and appends "..." if s was longer.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
