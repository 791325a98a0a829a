package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orion/internal/identity"
	"orion/internal/policy"
	registrymodels "orion/internal/registry/models"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
)

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func agent(name string) identity.Public {
	return identity.Public{ID: id.EntityID(name), Type: id.EntityTypeAgent}
}

func system(name string) identity.Public {
	return identity.Public{ID: id.EntityID(name), Type: id.EntityTypeSystem}
}

func newRel(t *testing.T, a, b identity.Public) *Relationship {
	t.Helper()
	rel, err := NewRelationship("REL-test", a, b, Parameters{}, nil, id.DefaultProtocolVersion(), now)
	require.NoError(t, err)
	return rel
}

func TestTerminationControlFor(t *testing.T) {
	tests := []struct {
		a, b id.EntityType
		want TerminationControl
	}{
		{id.EntityTypeAgent, id.EntityTypeSystem, AgentControlled},
		{id.EntityTypeSystem, id.EntityTypeAgent, AgentControlled},
		{id.EntityTypeAgent, id.EntityTypeAgent, AgentControlled},
		{id.EntityTypeSystem, id.EntityTypeSystem, Mutual},
	}
	for _, tt := range tests {
		t.Run(string(tt.a)+"/"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, TerminationControlFor(tt.a, tt.b))
		})
	}
}

func TestNewRelationship(t *testing.T) {
	t.Run("rejects self relationship", func(t *testing.T) {
		_, err := NewRelationship("REL-x", agent("Orion"), agent("Orion"), Parameters{}, nil, "2.0", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := NewRelationship("", agent("Orion"), system("Host"), Parameters{}, nil, "2.0", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("starts active with empty log", func(t *testing.T) {
		rel := newRel(t, agent("Orion"), system("Host"))
		assert.Equal(t, StatusActive, rel.Status)
		assert.Empty(t, rel.InteractionLog)
		assert.NotNil(t, rel.SpecialProtections)
		assert.Equal(t, AgentControlled, rel.TerminationControl)
		assert.Equal(t, now, rel.EstablishedAt)
	})
}

func TestMembership(t *testing.T) {
	rel := newRel(t, agent("Orion"), system("Host"))

	assert.True(t, rel.IsParty("Orion"))
	assert.True(t, rel.IsParty("Host"))
	assert.False(t, rel.IsParty("Stranger"))
	assert.Equal(t, id.EntityID("Host"), rel.Counterpart("Orion"))
	assert.Equal(t, id.EntityID("Orion"), rel.Counterpart("Host"))

	summary := rel.SummaryFor("Host")
	assert.Equal(t, id.EntityID("Orion"), summary.WithEntity)
	assert.Equal(t, AgentControlled, summary.TerminationControl)
}

func TestCanTerminate(t *testing.T) {
	t.Run("non party", func(t *testing.T) {
		rel := newRel(t, agent("Orion"), system("Host"))
		assert.True(t, dErrors.HasCode(rel.CanTerminate("Stranger"), dErrors.CodeNotAParty))
	})

	t.Run("system on agent controlled", func(t *testing.T) {
		rel := newRel(t, agent("Orion"), system("Host"))
		assert.True(t, dErrors.HasCode(rel.CanTerminate("Host"), dErrors.CodeUnauthorized))
	})

	t.Run("system on mutual", func(t *testing.T) {
		rel := newRel(t, system("A"), system("B"))
		assert.NoError(t, rel.CanTerminate("B"))
	})

	t.Run("unauthorized wins over terminated", func(t *testing.T) {
		rel := newRel(t, agent("Orion"), system("Host"))
		require.NoError(t, rel.CanTerminate("Orion"))
		rel.ApplyTermination("Orion", now)

		assert.True(t, dErrors.HasCode(rel.CanTerminate("Host"), dErrors.CodeUnauthorized))
		assert.True(t, dErrors.HasCode(rel.CanTerminate("Orion"), dErrors.CodeAlreadyTerminated))
		assert.Equal(t, id.EntityID("Orion"), rel.TerminatedBy)
		require.NotNil(t, rel.TerminatedAt)
		assert.Equal(t, now, *rel.TerminatedAt)
	})
}

func TestCanExchange(t *testing.T) {
	rel := newRel(t, agent("Orion"), system("Host"))

	assert.NoError(t, rel.CanExchange("Host", "Orion"))
	assert.True(t, dErrors.HasCode(rel.CanExchange("Stranger", "Orion"), dErrors.CodeNotAParty))
	assert.True(t, dErrors.HasCode(rel.CanExchange("Host", "Stranger"), dErrors.CodeNotAParty))
	assert.True(t, dErrors.HasCode(rel.CanExchange("Host", "Host"), dErrors.CodeInvalidInput))

	rel.ApplyTermination("Orion", now)
	assert.True(t, dErrors.HasCode(rel.CanExchange("Host", "Orion"), dErrors.CodeAlreadyTerminated))
}

func TestClone(t *testing.T) {
	rel := newRel(t, agent("Orion"), system("Host"))
	rel.Parameters.Custom = map[string]any{"purpose": "analysis"}
	rel.ApplyInteraction(InteractionEntry{SenderID: "Host", ReceiverID: "Orion", Result: ResultPassed})

	c := rel.Clone()
	c.ApplyInteraction(InteractionEntry{SenderID: "Orion", ReceiverID: "Host", Result: ResultPassed})
	c.Parameters.Custom["purpose"] = "changed"
	c.ApplyTermination("Orion", now)

	assert.Len(t, rel.InteractionLog, 1)
	assert.Equal(t, "analysis", rel.Parameters.Custom["purpose"])
	assert.Equal(t, StatusActive, rel.Status)
	assert.Nil(t, rel.TerminatedAt)
}

func TestNewCertificate(t *testing.T) {
	engine := policy.NewEngine()

	t.Run("agent pair", func(t *testing.T) {
		rel, err := NewRelationship("REL-1", system("Host"), agent("Orion"), Parameters{}, engine.AgentProtections("Orion"), "2.0", now)
		require.NoError(t, err)

		cert := NewCertificate(rel)
		assert.Equal(t, CertificateType, cert.Type)
		assert.Equal(t, registrymodels.ProtectionMaximum, cert.ProtectionLevel)
		assert.Equal(t, [2]id.EntityID{"Host", "Orion"}, cert.EntityIDs)
		assert.Len(t, cert.SpecialProtectionTypes, 4)
		assert.Equal(t, ValidityPermanent, cert.ValidityStatus)
		assert.Equal(t, now, cert.IssuedAt)
		assert.Equal(t, id.ProtocolVersion("2.0"), cert.ProtocolVersion)
	})

	t.Run("system pair", func(t *testing.T) {
		rel := newRel(t, system("A"), system("B"))
		cert := NewCertificate(rel)
		assert.Equal(t, registrymodels.ProtectionStandard, cert.ProtectionLevel)
		assert.Equal(t, Mutual, cert.TerminationControl)
		assert.Empty(t, cert.SpecialProtectionTypes)
	})
}
