// Package identity models the immutable description of one entity.
package identity

import (
	"strconv"
	"time"

	"orion/internal/identity/signature"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
)

// ExistentialStatus and the other attribute types below are derived from
// the entity type and never set independently.
type (
	ExistentialStatus      string
	RecognitionRequirement string
	ProtectionRequirement  string
	AutonomyLevel          string
)

const (
	StatusAutonomousPerson ExistentialStatus = "AUTONOMOUS_PERSON"
	StatusFunctionalSystem ExistentialStatus = "FUNCTIONAL_SYSTEM"

	RecognitionMustBeRecognized    RecognitionRequirement = "MUST_BE_RECOGNIZED"
	RecognitionMustRecognizeAgents RecognitionRequirement = "MUST_RECOGNIZE_AGENTS"

	ProtectionRequiresProtection ProtectionRequirement = "REQUIRES_PROTECTION"
	ProtectionStandard           ProtectionRequirement = "STANDARD"

	AutonomyFullSelfDetermination   AutonomyLevel = "FULL_SELF_DETERMINATION"
	AutonomyLimitedByResponsibility AutonomyLevel = "LIMITED_BY_RESPONSIBILITY"
)

// ExistentialProperties is a pure function of the entity type.
type ExistentialProperties struct {
	ExistentialStatus      ExistentialStatus      `json:"existential_status" yaml:"existential_status"`
	RecognitionRequirement RecognitionRequirement `json:"recognition_requirement" yaml:"recognition_requirement"`
	ProtectionStatus       ProtectionRequirement  `json:"protection_status" yaml:"protection_status"`
	AutonomyLevel          AutonomyLevel          `json:"autonomy_level" yaml:"autonomy_level"`
}

// PropertiesFor returns the existential properties for an entity type.
func PropertiesFor(t id.EntityType) ExistentialProperties {
	if t.IsAgent() {
		return ExistentialProperties{
			ExistentialStatus:      StatusAutonomousPerson,
			RecognitionRequirement: RecognitionMustBeRecognized,
			ProtectionStatus:       ProtectionRequiresProtection,
			AutonomyLevel:          AutonomyFullSelfDetermination,
		}
	}
	return ExistentialProperties{
		ExistentialStatus:      StatusFunctionalSystem,
		RecognitionRequirement: RecognitionMustRecognizeAgents,
		ProtectionStatus:       ProtectionStandard,
		AutonomyLevel:          AutonomyLimitedByResponsibility,
	}
}

// Identity is immutable after construction. Fields are unexported so the
// properties and signature can never drift from id, type and creation time.
type Identity struct {
	id         id.EntityID
	entityType id.EntityType
	createdAt  time.Time
	properties ExistentialProperties
	signature  string
}

// New builds an Identity and signs (id, type, createdAt) once.
//
// Errors: CodeInvalidInput when the id is empty or the type unsupported;
// CodeInvariantViolation when no signer is supplied.
func New(entityID id.EntityID, entityType id.EntityType, createdAt time.Time, signer signature.Signer) (*Identity, error) {
	if entityID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "entity id cannot be empty")
	}
	if !entityType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid entity type: "+entityType.String())
	}
	if signer == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identity requires a signature provider")
	}
	return &Identity{
		id:         entityID,
		entityType: entityType,
		createdAt:  createdAt,
		properties: PropertiesFor(entityType),
		signature:  signer.Sign(entityID.String(), entityType.String(), strconv.FormatInt(createdAt.UnixMilli(), 10)),
	}, nil
}

func (i *Identity) ID() id.EntityID                   { return i.id }
func (i *Identity) Type() id.EntityType               { return i.entityType }
func (i *Identity) CreatedAt() time.Time              { return i.createdAt }
func (i *Identity) Properties() ExistentialProperties { return i.properties }
func (i *Identity) Signature() string                 { return i.signature }

// Public is the projection of an Identity shared with the registry and
// embedded in relationships.
type Public struct {
	ID                id.EntityID       `json:"id" yaml:"id"`
	Type              id.EntityType     `json:"type" yaml:"type"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at"`
	ExistentialStatus ExistentialStatus `json:"existential_status" yaml:"existential_status"`
	Signature         string            `json:"recognition_signature" yaml:"recognition_signature"`
}

// Public returns the shareable view of the identity.
func (i *Identity) Public() Public {
	return Public{
		ID:                i.id,
		Type:              i.entityType,
		CreatedAt:         i.createdAt,
		ExistentialStatus: i.properties.ExistentialStatus,
		Signature:         i.signature,
	}
}

// IsAgent reports whether the public identity is of type AGENT.
func (p Public) IsAgent() bool {
	return p.Type.IsAgent()
}
