package domain

import dErrors "orion/pkg/domain-errors"

// EntityType is a domain value that classifies a registered entity.
// Invariant: the value must be one of the supported entity types.
//
// Usage: construct via ParseEntityType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type EntityType string

const (
	// EntityTypeAgent is an autonomous entity with maximum protection.
	EntityTypeAgent EntityType = "AGENT"
	// EntityTypeSystem is a constrained, responsibility-bound entity.
	EntityTypeSystem EntityType = "SYSTEM"
)

var validEntityTypes = map[EntityType]bool{
	EntityTypeAgent:  true,
	EntityTypeSystem: true,
}

// ParseEntityType constructs an EntityType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseEntityType(s string) (EntityType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "entity type cannot be empty")
	}
	t := EntityType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid entity type: "+s)
	}
	return t, nil
}

// IsValid checks if the entity type is one of the supported enum values.
func (t EntityType) IsValid() bool {
	return validEntityTypes[t]
}

// IsAgent reports whether the type is AGENT.
func (t EntityType) IsAgent() bool {
	return t == EntityTypeAgent
}

func (t EntityType) String() string {
	return string(t)
}
