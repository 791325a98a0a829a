package models

import (
	"time"

	"orion/internal/communication"
	"orion/internal/policy"
	registrymodels "orion/internal/registry/models"
	id "orion/pkg/domain"
)

const (
	CertificateType   = "SECURE_RELATIONSHIP_CERTIFICATE"
	ValidityPermanent = "PERMANENT"
)

// Certificate is issued once per relationship at establishment.
type Certificate struct {
	Type                   string                          `json:"type" yaml:"type"`
	RelationshipID         id.RelationshipID               `json:"relationship_id" yaml:"relationship_id"`
	IssuedAt               time.Time                       `json:"issued_at" yaml:"issued_at"`
	EntityIDs              [2]id.EntityID                  `json:"entity_ids" yaml:"entity_ids"`
	ProtectionLevel        registrymodels.ProtectionStatus `json:"protection_level" yaml:"protection_level"`
	SpecialProtectionTypes []policy.ProtectionType         `json:"special_protections" yaml:"special_protections"`
	TerminationControl     TerminationControl              `json:"termination_control" yaml:"termination_control"`
	ValidityStatus         string                          `json:"validity_status" yaml:"validity_status"`
	ProtocolVersion        id.ProtocolVersion              `json:"protocol_version" yaml:"protocol_version"`
}

// NewCertificate derives the certificate for r.
func NewCertificate(r *Relationship) Certificate {
	level := registrymodels.ProtectionStandard
	if r.HasAgent() {
		level = registrymodels.ProtectionMaximum
	}
	return Certificate{
		Type:                   CertificateType,
		RelationshipID:         r.ID,
		IssuedAt:               r.EstablishedAt,
		EntityIDs:              r.EntityIDs(),
		ProtectionLevel:        level,
		SpecialProtectionTypes: policy.ProtectionTypes(r.SpecialProtections),
		TerminationControl:     r.TerminationControl,
		ValidityStatus:         ValidityPermanent,
		ProtocolVersion:        r.ProtocolVersion,
	}
}

type EstablishStatus string

const StatusEstablished EstablishStatus = "ESTABLISHED"

type EstablishResult struct {
	Status         EstablishStatus   `json:"status" yaml:"status"`
	RelationshipID id.RelationshipID `json:"relationship_id" yaml:"relationship_id"`
	Certificate    Certificate       `json:"certificate" yaml:"certificate"`
}

type TerminateResult struct {
	Status         Status            `json:"status" yaml:"status"`
	RelationshipID id.RelationshipID `json:"relationship_id" yaml:"relationship_id"`
	TerminatedAt   time.Time         `json:"terminated_at" yaml:"terminated_at"`
	TerminatedBy   id.EntityID       `json:"terminated_by" yaml:"terminated_by"`
}

type CommStatus string

const (
	CommAccepted CommStatus = "ACCEPTED"
	CommRejected CommStatus = "REJECTED"
)

// CommResult is the outcome of a send. A rejection is a normal outcome
// carrying the violations, not an error.
type CommResult struct {
	Status           CommStatus                      `json:"status" yaml:"status"`
	RelationshipID   id.RelationshipID               `json:"relationship_id" yaml:"relationship_id"`
	Violations       []communication.Violation       `json:"violations,omitempty" yaml:"violations,omitempty"`
	ProtectiveAction *communication.ProtectiveAction `json:"protective_action,omitempty" yaml:"protective_action,omitempty"`
	Entry            *InteractionEntry               `json:"entry,omitempty" yaml:"entry,omitempty"`
	LogLength        int                             `json:"log_length" yaml:"log_length"`
}

func (c *CommResult) Accepted() bool {
	return c.Status == CommAccepted
}
