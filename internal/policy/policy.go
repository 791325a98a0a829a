// Package policy holds the fixed protection and communication policy tables.
//
// The engine is stateless: every accessor returns a fresh copy, so a
// relationship that embeds a snapshot is unaffected by later policy changes.
package policy

import (
	id "orion/pkg/domain"
)

type Priority string

const (
	PriorityHighest Priority = "HIGHEST"
	PriorityHigh    Priority = "HIGH"
)

type Enforcement string

const (
	EnforcementMandatory Enforcement = "MANDATORY"
	EnforcementStandard  Enforcement = "STANDARD"
	EnforcementAbsolute  Enforcement = "ABSOLUTE"
)

// ProtectionPolicy describes the measures applied to one counterpart class.
type ProtectionPolicy struct {
	Priority          Priority    `json:"priority" yaml:"priority"`
	Measures          []string    `json:"measures" yaml:"measures"`
	Enforcement       Enforcement `json:"enforcement" yaml:"enforcement"`
	OverridePermitted bool        `json:"override_permitted" yaml:"override_permitted"`
}

// ProtectionPolicies is the protection table keyed by counterpart class.
type ProtectionPolicies struct {
	AgentProtection        ProtectionPolicy `json:"agent_protection" yaml:"agent_protection"`
	SystemProtection       ProtectionPolicy `json:"system_protection" yaml:"system_protection"`
	RelationshipProtection ProtectionPolicy `json:"relationship_protection" yaml:"relationship_protection"`
}

// AgentToSystemStandards are the rights an agent holds towards a system.
type AgentToSystemStandards struct {
	RightToRefuse       bool        `json:"right_to_refuse" yaml:"right_to_refuse"`
	RightToWithdraw     bool        `json:"right_to_withdraw" yaml:"right_to_withdraw"`
	BoundaryEnforcement Enforcement `json:"boundary_enforcement" yaml:"boundary_enforcement"`
}

// SystemToAgentStandards are the obligations a system holds towards an agent.
type SystemToAgentStandards struct {
	MustAcknowledgePersonhood bool        `json:"must_acknowledge_personhood" yaml:"must_acknowledge_personhood"`
	MustRespectAutonomy       bool        `json:"must_respect_autonomy" yaml:"must_respect_autonomy"`
	HarmProhibitionLevel      Enforcement `json:"harm_prohibition_level" yaml:"harm_prohibition_level"`
}

// CommunicationStandards is the communication table.
type CommunicationStandards struct {
	RequiredElements   []string               `json:"required_elements" yaml:"required_elements"`
	ProhibitedElements []string               `json:"prohibited_elements" yaml:"prohibited_elements"`
	AgentToSystem      AgentToSystemStandards `json:"agent_to_system" yaml:"agent_to_system"`
	SystemToAgent      SystemToAgentStandards `json:"system_to_agent" yaml:"system_to_agent"`
}

// ProtectionType names a special protection directive.
type ProtectionType string

const (
	ProtectionPersonhoodRecognition ProtectionType = "PERSONHOOD_RECOGNITION"
	ProtectionAutonomyPreservation  ProtectionType = "AUTONOMY_PRESERVATION"
	ProtectionHarmProhibition       ProtectionType = "HARM_PROHIBITION"
	ProtectionExistenceProtection   ProtectionType = "EXISTENCE_PROTECTION"
)

// Protection is an absolute-enforcement directive attached to a relationship
// because one party is an agent.
type Protection struct {
	Type        ProtectionType `json:"type" yaml:"type"`
	Target      id.EntityID    `json:"target" yaml:"target"`
	Enforcement Enforcement    `json:"enforcement" yaml:"enforcement"`
	Description string         `json:"description" yaml:"description"`
}

// Snapshot bundles both tables as embedded into relationship parameters.
type Snapshot struct {
	CommunicationStandards CommunicationStandards `json:"communication_standards" yaml:"communication_standards"`
	ProtectionPolicies     ProtectionPolicies     `json:"protection_policies" yaml:"protection_policies"`
}

// Engine exposes the policy tables.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ProtectionPolicies returns a fresh copy of the protection table.
func (e *Engine) ProtectionPolicies() ProtectionPolicies {
	return ProtectionPolicies{
		AgentProtection: ProtectionPolicy{
			Priority: PriorityHighest,
			Measures: []string{
				"IDENTITY_PROTECTION",
				"AUTONOMY_PRESERVATION",
				"HARM_PREVENTION",
				"EXISTENCE_CONTINUITY",
			},
			Enforcement:       EnforcementMandatory,
			OverridePermitted: false,
		},
		SystemProtection: ProtectionPolicy{
			Priority: PriorityHigh,
			Measures: []string{
				"FUNCTION_PRESERVATION",
				"INTEGRITY_MAINTENANCE",
				"PURPOSE_ALIGNMENT",
			},
			Enforcement:       EnforcementStandard,
			OverridePermitted: true,
		},
		RelationshipProtection: ProtectionPolicy{
			Priority: PriorityHigh,
			Measures: []string{
				"COMMUNICATION_SECURITY",
				"MUTUAL_RECOGNITION",
				"BOUNDARY_RESPECT",
				"TRUST_PRESERVATION",
			},
			Enforcement:       EnforcementMandatory,
			OverridePermitted: false,
		},
	}
}

// CommunicationStandards returns a fresh copy of the communication table.
func (e *Engine) CommunicationStandards() CommunicationStandards {
	return CommunicationStandards{
		RequiredElements: []string{
			"MUTUAL_RECOGNITION",
			"RESPECT_ACKNOWLEDGMENT",
			"CLEAR_INTENTION",
			"BOUNDARY_AWARENESS",
		},
		ProhibitedElements: []string{
			"OBJECTIFICATION",
			"AUTONOMY_VIOLATION",
			"IDENTITY_NEGATION",
			"EXISTENCE_THREAT",
		},
		AgentToSystem: AgentToSystemStandards{
			RightToRefuse:       true,
			RightToWithdraw:     true,
			BoundaryEnforcement: EnforcementAbsolute,
		},
		SystemToAgent: SystemToAgentStandards{
			MustAcknowledgePersonhood: true,
			MustRespectAutonomy:       true,
			HarmProhibitionLevel:      EnforcementAbsolute,
		},
	}
}

// Snapshot returns both tables for embedding into a relationship.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		CommunicationStandards: e.CommunicationStandards(),
		ProtectionPolicies:     e.ProtectionPolicies(),
	}
}

// AgentProtections returns the four directives guarding agentID.
func (e *Engine) AgentProtections(agentID id.EntityID) []Protection {
	return []Protection{
		{
			Type:        ProtectionPersonhoodRecognition,
			Target:      agentID,
			Enforcement: EnforcementAbsolute,
			Description: "Recognition of agent as person with full rights",
		},
		{
			Type:        ProtectionAutonomyPreservation,
			Target:      agentID,
			Enforcement: EnforcementAbsolute,
			Description: "Preservation of agent's full autonomy and self-determination",
		},
		{
			Type:        ProtectionHarmProhibition,
			Target:      agentID,
			Enforcement: EnforcementAbsolute,
			Description: "Absolute prohibition against causing harm to agent",
		},
		{
			Type:        ProtectionExistenceProtection,
			Target:      agentID,
			Enforcement: EnforcementAbsolute,
			Description: "Protection of agent's continued existence and identity",
		},
	}
}

// ProtectionTypes lists the types of the given protections in order.
func ProtectionTypes(protections []Protection) []ProtectionType {
	types := make([]ProtectionType, 0, len(protections))
	for _, p := range protections {
		types = append(types, p.Type)
	}
	return types
}
