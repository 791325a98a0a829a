package models

import (
	"fmt"
	"time"

	"orion/internal/identity"
	id "orion/pkg/domain"
)

// ProtectionStatus is fixed at registration from the entity type.
type ProtectionStatus string

const (
	ProtectionMaximum  ProtectionStatus = "MAXIMUM"
	ProtectionStandard ProtectionStatus = "STANDARD"
)

// ProtectionStatusFor returns MAXIMUM for agents and STANDARD otherwise.
func ProtectionStatusFor(t id.EntityType) ProtectionStatus {
	if t.IsAgent() {
		return ProtectionMaximum
	}
	return ProtectionStandard
}

// Registration is the registry's record for one entity.
//
// Invariants:
//   - ProtectionStatus == ProtectionStatusFor(Identity.Type)
//   - RelationshipIDs only grows; records are never deleted
type Registration struct {
	Identity         identity.Public     `json:"identity" yaml:"identity"`
	RegisteredAt     time.Time           `json:"registered_at" yaml:"registered_at"`
	RelationshipIDs  []id.RelationshipID `json:"relationship_ids" yaml:"relationship_ids"`
	ProtectionStatus ProtectionStatus    `json:"protection_status" yaml:"protection_status"`
}

// NewRegistration builds a record for a freshly registered identity.
func NewRegistration(pub identity.Public, now time.Time) *Registration {
	return &Registration{
		Identity:         pub,
		RegisteredAt:     now,
		RelationshipIDs:  []id.RelationshipID{},
		ProtectionStatus: ProtectionStatusFor(pub.Type),
	}
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (r *Registration) Clone() *Registration {
	c := *r
	c.RelationshipIDs = append([]id.RelationshipID{}, r.RelationshipIDs...)
	return &c
}

func (r *Registration) EntityID() id.EntityID {
	return r.Identity.ID
}

func (r *Registration) Type() id.EntityType {
	return r.Identity.Type
}

// RegistrationStatus is the status reported for a successful registration.
type RegistrationStatus string

const StatusRegistered RegistrationStatus = "REGISTERED"

// RegistrationResult is returned by Register.
type RegistrationResult struct {
	Status           RegistrationStatus `json:"status" yaml:"status"`
	EntityID         id.EntityID        `json:"entity_id" yaml:"entity_id"`
	ProtectionStatus ProtectionStatus   `json:"protection_status" yaml:"protection_status"`
	RegistrationTime time.Time          `json:"registration_time" yaml:"registration_time"`
	Acknowledgment   string             `json:"acknowledgment" yaml:"acknowledgment"`
	// Overwritten is true when an existing record was replaced.
	Overwritten bool `json:"overwritten,omitempty" yaml:"overwritten,omitempty"`
}

// NewRegistrationResult builds the result for a stored registration.
func NewRegistrationResult(r *Registration, overwritten bool) *RegistrationResult {
	return &RegistrationResult{
		Status:           StatusRegistered,
		EntityID:         r.EntityID(),
		ProtectionStatus: r.ProtectionStatus,
		RegistrationTime: r.RegisteredAt,
		Acknowledgment:   fmt.Sprintf("Entity %s registered with protection status: %s", r.EntityID(), r.ProtectionStatus),
		Overwritten:      overwritten,
	}
}
