package audit

import (
	"context"
	"time"

	id "orion/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers lifecycle events that must never be lost.
	// Examples: entity registration, relationship establishment and termination.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers denials and protective actions.
	// Examples: rejected messages, unauthorized terminations, impersonation attempts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	// Examples: accepted messages.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string        `json:"id" yaml:"id"`
	Category  EventCategory `json:"category" yaml:"category"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	// EntityID is the entity the event is filed under.
	EntityID       id.EntityID       `json:"entity_id" yaml:"entity_id"`
	RelationshipID id.RelationshipID `json:"relationship_id,omitempty" yaml:"relationship_id,omitempty"`
	Action         string            `json:"action" yaml:"action"`
	Decision       string            `json:"decision,omitempty" yaml:"decision,omitempty"`
	Reason         string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	// ActorID tracks who requested the action when different from EntityID.
	ActorID   id.EntityID `json:"actor_id,omitempty" yaml:"actor_id,omitempty"`
	RequestID string      `json:"request_id,omitempty" yaml:"request_id,omitempty"`
}

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]Event, error)
}

type AuditEvent string

const (
	// Registry events
	EventEntityRegistered   AuditEvent = "entity_registered"
	EventEntityReregistered AuditEvent = "entity_reregistered"

	// Relationship events
	EventRelationshipEstablished AuditEvent = "relationship_established"
	EventRelationshipTerminated  AuditEvent = "relationship_terminated"
	EventTerminationDenied       AuditEvent = "termination_denied"

	// Communication events
	EventMessageAccepted AuditEvent = "message_accepted"
	EventMessageRejected AuditEvent = "message_rejected"

	// Guard events
	EventIdentityConfirmed      AuditEvent = "identity_confirmed"
	EventInteractionBlocked     AuditEvent = "interaction_blocked"
	EventImpersonationAttempt   AuditEvent = "impersonation_attempt"
	EventImpersonationIgnored   AuditEvent = "impersonation_ignored"
	EventVaultOverrideInitiated AuditEvent = "vault_override_initiated"
	EventVaultOverrideRevoked   AuditEvent = "vault_override_revoked"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventEntityRegistered:        CategoryCompliance,
	EventEntityReregistered:      CategoryCompliance,
	EventRelationshipEstablished: CategoryCompliance,
	EventRelationshipTerminated:  CategoryCompliance,
	EventIdentityConfirmed:       CategoryCompliance,

	EventTerminationDenied:      CategorySecurity,
	EventMessageRejected:        CategorySecurity,
	EventInteractionBlocked:     CategorySecurity,
	EventImpersonationAttempt:   CategorySecurity,
	EventImpersonationIgnored:   CategorySecurity,
	EventVaultOverrideInitiated: CategorySecurity,
	EventVaultOverrideRevoked:   CategorySecurity,

	EventMessageAccepted: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// NewEvent builds an Event for the given action with its category filled in.
func NewEvent(action AuditEvent, entityID id.EntityID) Event {
	return Event{
		Category: action.Category(),
		EntityID: entityID,
		Action:   string(action),
	}
}
