package communication

import (
	"encoding/json"
	"fmt"
)

// Message is the content sent through a relationship. It is either a
// TextMessage or a StructuredMessage; validators only look at Text.
type Message interface {
	// Text is the textual representation scanned by the validator and
	// summarized into the interaction log.
	Text() string
	isMessage()
}

// TextMessage is plain text content.
type TextMessage string

func (m TextMessage) Text() string { return string(m) }
func (TextMessage) isMessage()     {}

// StructuredMessage is key/value content. Its textual representation is the
// JSON encoding with keys sorted, so identical content always scans the same.
type StructuredMessage map[string]any

func (m StructuredMessage) Text() string {
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return fmt.Sprint(map[string]any(m))
	}
	return string(b)
}

func (StructuredMessage) isMessage() {}
