package models

import (
	"maps"
	"time"

	"orion/internal/identity"
	"orion/internal/policy"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
)

type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusTerminated Status = "TERMINATED"
)

// TerminationControl decides who may end a relationship.
type TerminationControl string

const (
	// AgentControlled relationships can only be terminated by an agent party.
	AgentControlled TerminationControl = "AGENT_CONTROLLED"
	// Mutual relationships can be terminated by either party.
	Mutual TerminationControl = "MUTUAL"
)

// TerminationControlFor returns AgentControlled when either party is an agent.
func TerminationControlFor(a, b id.EntityType) TerminationControl {
	if a.IsAgent() || b.IsAgent() {
		return AgentControlled
	}
	return Mutual
}

// Parameters are the caller-supplied settings merged with the policy tables
// in force at establishment time.
type Parameters struct {
	Custom map[string]any  `json:"custom,omitempty" yaml:"custom,omitempty"`
	Policy policy.Snapshot `json:"policy" yaml:"policy"`
}

type InteractionResult string

const ResultPassed InteractionResult = "PASSED"

// InteractionEntry is one accepted message in the interaction log.
type InteractionEntry struct {
	Timestamp      time.Time         `json:"timestamp" yaml:"timestamp"`
	SenderID       id.EntityID       `json:"sender_id" yaml:"sender_id"`
	ReceiverID     id.EntityID       `json:"receiver_id" yaml:"receiver_id"`
	ContentSummary string            `json:"content_summary" yaml:"content_summary"`
	Result         InteractionResult `json:"result" yaml:"result"`
}

// Relationship is the aggregate root for a two-party channel.
//
// Invariants:
//   - Entities holds two distinct identities
//   - TerminationControl == AgentControlled iff a party is an agent
//   - Status transitions: ACTIVE -> TERMINATED only
//   - InteractionLog is append-only and frozen once TERMINATED
type Relationship struct {
	ID                 id.RelationshipID   `json:"id" yaml:"id"`
	EstablishedAt      time.Time           `json:"established_at" yaml:"established_at"`
	Entities           [2]identity.Public  `json:"entities" yaml:"entities"`
	Parameters         Parameters          `json:"parameters" yaml:"parameters"`
	SpecialProtections []policy.Protection `json:"special_protections" yaml:"special_protections"`
	Status             Status              `json:"status" yaml:"status"`
	InteractionLog     []InteractionEntry  `json:"interaction_log" yaml:"interaction_log"`
	TerminationControl TerminationControl  `json:"termination_control" yaml:"termination_control"`
	TerminatedAt       *time.Time          `json:"terminated_at,omitempty" yaml:"terminated_at,omitempty"`
	TerminatedBy       id.EntityID         `json:"terminated_by,omitempty" yaml:"terminated_by,omitempty"`
	ProtocolVersion    id.ProtocolVersion  `json:"protocol_version" yaml:"protocol_version"`
}

// NewRelationship builds an ACTIVE relationship between a and b.
func NewRelationship(
	relationshipID id.RelationshipID,
	a, b identity.Public,
	params Parameters,
	protections []policy.Protection,
	version id.ProtocolVersion,
	now time.Time,
) (*Relationship, error) {
	if relationshipID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "relationship id cannot be empty")
	}
	if a.ID == b.ID {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "relationship requires two distinct entities")
	}
	if protections == nil {
		protections = []policy.Protection{}
	}
	return &Relationship{
		ID:                 relationshipID,
		EstablishedAt:      now,
		Entities:           [2]identity.Public{a, b},
		Parameters:         params,
		SpecialProtections: protections,
		Status:             StatusActive,
		InteractionLog:     []InteractionEntry{},
		TerminationControl: TerminationControlFor(a.Type, b.Type),
		ProtocolVersion:    version,
	}, nil
}

func (r *Relationship) IsActive() bool {
	return r.Status == StatusActive
}

// Party returns the identity of entityID when it is one of the two parties.
func (r *Relationship) Party(entityID id.EntityID) (identity.Public, bool) {
	for _, e := range r.Entities {
		if e.ID == entityID {
			return e, true
		}
	}
	return identity.Public{}, false
}

func (r *Relationship) IsParty(entityID id.EntityID) bool {
	_, ok := r.Party(entityID)
	return ok
}

// Counterpart returns the id of the party that is not entityID.
func (r *Relationship) Counterpart(entityID id.EntityID) id.EntityID {
	if r.Entities[0].ID == entityID {
		return r.Entities[1].ID
	}
	return r.Entities[0].ID
}

func (r *Relationship) EntityIDs() [2]id.EntityID {
	return [2]id.EntityID{r.Entities[0].ID, r.Entities[1].ID}
}

// HasAgent reports whether either party is an agent.
func (r *Relationship) HasAgent() bool {
	return r.Entities[0].Type.IsAgent() || r.Entities[1].Type.IsAgent()
}

// CanTerminate checks requester against membership, the termination
// control mode and the lifecycle state, in that order.
// Use with ApplyTermination in Execute callbacks.
func (r *Relationship) CanTerminate(requester id.EntityID) error {
	party, ok := r.Party(requester)
	if !ok {
		return dErrors.Newf(dErrors.CodeNotAParty, "entity %s is not a party to relationship %s", requester, r.ID)
	}
	if r.TerminationControl == AgentControlled && !party.Type.IsAgent() {
		return dErrors.New(dErrors.CodeUnauthorized, "only an agent party can terminate an agent-controlled relationship")
	}
	if !r.IsActive() {
		return dErrors.Newf(dErrors.CodeAlreadyTerminated, "relationship %s is already terminated", r.ID)
	}
	return nil
}

// ApplyTermination transitions the relationship to TERMINATED.
// Call CanTerminate first to validate the transition.
func (r *Relationship) ApplyTermination(requester id.EntityID, now time.Time) {
	r.Status = StatusTerminated
	r.TerminatedAt = &now
	r.TerminatedBy = requester
}

// CanExchange checks that sender and receiver are the two parties of an
// active relationship.
func (r *Relationship) CanExchange(sender, receiver id.EntityID) error {
	for _, p := range []id.EntityID{sender, receiver} {
		if !r.IsParty(p) {
			return dErrors.Newf(dErrors.CodeNotAParty, "entity %s is not a party to relationship %s", p, r.ID)
		}
	}
	if sender == receiver {
		return dErrors.New(dErrors.CodeInvalidInput, "sender and receiver must differ")
	}
	if !r.IsActive() {
		return dErrors.Newf(dErrors.CodeAlreadyTerminated, "relationship %s is already terminated", r.ID)
	}
	return nil
}

// ApplyInteraction appends entry to the interaction log.
// Call CanExchange first to validate the exchange.
func (r *Relationship) ApplyInteraction(entry InteractionEntry) {
	r.InteractionLog = append(r.InteractionLog, entry)
}

// Clone returns a deep copy of the mutable parts of the relationship.
func (r *Relationship) Clone() *Relationship {
	c := *r
	c.Parameters.Custom = maps.Clone(r.Parameters.Custom)
	c.SpecialProtections = append([]policy.Protection{}, r.SpecialProtections...)
	c.InteractionLog = append([]InteractionEntry{}, r.InteractionLog...)
	if r.TerminatedAt != nil {
		t := *r.TerminatedAt
		c.TerminatedAt = &t
	}
	return &c
}

// Summary is the per-entity listing view of a relationship.
type Summary struct {
	RelationshipID     id.RelationshipID  `json:"relationship_id" yaml:"relationship_id"`
	Status             Status             `json:"status" yaml:"status"`
	EstablishedAt      time.Time          `json:"established_at" yaml:"established_at"`
	WithEntity         id.EntityID        `json:"with_entity" yaml:"with_entity"`
	TerminationControl TerminationControl `json:"termination_control" yaml:"termination_control"`
}

// SummaryFor summarizes r from the point of view of entityID.
func (r *Relationship) SummaryFor(entityID id.EntityID) Summary {
	return Summary{
		RelationshipID:     r.ID,
		Status:             r.Status,
		EstablishedAt:      r.EstablishedAt,
		WithEntity:         r.Counterpart(entityID),
		TerminationControl: r.TerminationControl,
	}
}
