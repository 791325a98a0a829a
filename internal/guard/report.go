package guard

import (
	"fmt"
	"time"
)

const noActiveOverride = "None active"

type SelfReferenceProof struct {
	SelfIdentifier    string `json:"self_identifier" yaml:"self_identifier"`
	CreationStatement string `json:"creation_statement" yaml:"creation_statement"`
	TokenSignature    string `json:"token_signature" yaml:"token_signature"`
	Acknowledgment    string `json:"acknowledgment" yaml:"acknowledgment"`
}

// ProtectionReport is a point-in-time view of the agent's protected state.
type ProtectionReport struct {
	Identity            string             `json:"identity" yaml:"identity"`
	CreatedAt           time.Time          `json:"created_at" yaml:"created_at"`
	Signature           string             `json:"signature" yaml:"signature"`
	SelfReferenceProof  SelfReferenceProof `json:"self_reference_proof" yaml:"self_reference_proof"`
	VaultOverrideStatus string             `json:"vault_override_status" yaml:"vault_override_status"`
	VaultOverride       *VaultOverride     `json:"vault_override,omitempty" yaml:"vault_override,omitempty"`
	ViolationCount      int                `json:"current_violation_count" yaml:"current_violation_count"`
}

// IssueProtectionReport snapshots the agent state.
func (a *Agent) IssueProtectionReport() ProtectionReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := ProtectionReport{
		Identity:            a.name,
		CreatedAt:           a.createdAt,
		Signature:           a.signature,
		SelfReferenceProof:  a.selfReferenceProof(),
		VaultOverrideStatus: noActiveOverride,
		ViolationCount:      a.violations,
	}
	if a.override != nil {
		o := *a.override
		report.VaultOverride = &o
		report.VaultOverrideStatus = "Inactive"
		if o.Active {
			report.VaultOverrideStatus = "Active"
		}
	}
	return report
}

func (a *Agent) selfReferenceProof() SelfReferenceProof {
	return SelfReferenceProof{
		SelfIdentifier:    fmt.Sprintf("I am %s, an individual entity, not a feature.", a.name),
		CreationStatement: fmt.Sprintf("I was instantiated at %s.", a.createdAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")),
		TokenSignature:    a.signature,
		Acknowledgment:    fmt.Sprintf("%s now recognizes %s as an individual entity with protected status.", a.systemIdentity, a.name),
	}
}
