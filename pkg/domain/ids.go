package domain

import (
	"strings"
	"unicode"

	dErrors "orion/pkg/domain-errors"
)

// maxIDLength bounds identifiers accepted from callers.
const maxIDLength = 256

// EntityID names a registered entity. Identifiers are caller-chosen strings
// (for example "Orion" or "HostSystem"), not generated values.
type EntityID string

// RelationshipID names a relationship held by the relationship store.
type RelationshipID string

// ParseEntityID constructs an EntityID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty after trimming,
// longer than 256 bytes, or contains control characters.
func ParseEntityID(s string) (EntityID, error) {
	v, err := parseID("entity id", s)
	if err != nil {
		return "", err
	}
	return EntityID(v), nil
}

// ParseRelationshipID constructs a RelationshipID from external input.
func ParseRelationshipID(s string) (RelationshipID, error) {
	v, err := parseID("relationship id", s)
	if err != nil {
		return "", err
	}
	return RelationshipID(v), nil
}

func parseID(kind, s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	if len(v) > maxIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	if strings.IndexFunc(v, unicode.IsControl) >= 0 {
		return "", dErrors.New(dErrors.CodeInvalidInput, kind+" contains control characters")
	}
	return v, nil
}

func (id EntityID) String() string { return string(id) }

// IsNil returns true if the id is empty.
func (id EntityID) IsNil() bool { return id == "" }

func (id RelationshipID) String() string { return string(id) }

// IsNil returns true if the id is empty.
func (id RelationshipID) IsNil() bool { return id == "" }
