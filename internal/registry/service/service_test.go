package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks RegistrationStore,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"orion/internal/identity"
	"orion/internal/identity/signature"
	"orion/internal/platform/config"
	"orion/internal/registry/metrics"
	"orion/internal/registry/models"
	"orion/internal/registry/service/mocks"
	"orion/internal/registry/store"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
	audit "orion/pkg/platform/audit"
	"orion/pkg/requestcontext"
)

// =============================================================================
// Registry Service Test Suite
// =============================================================================
// Covers protection status assignment, the re-registration policy, error
// translation from store sentinels, and audit emission.

type RegistryServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockAudit *mocks.MockAuditPublisher
	store     *store.InMemory
	metrics   *metrics.Metrics
	service   *Service
	now       time.Time
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.store = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	var err error
	s.service, err = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.mockAudit),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
}

func (s *RegistryServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RegistryServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *RegistryServiceSuite) newIdentity(entityID string, t id.EntityType) *identity.Identity {
	ident, err := identity.New(id.EntityID(entityID), t, s.now, signature.NewSHA256())
	s.Require().NoError(err)
	return ident
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *RegistryServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "registration store is required")
	})

	s.Run("defaults to reject mode", func() {
		svc, err := New(s.store)
		s.Require().NoError(err)
		s.Equal(config.ReregistrationReject, svc.mode)
	})
}

// =============================================================================
// Register Tests
// =============================================================================

func (s *RegistryServiceSuite) TestRegister() {
	s.Run("agent gets maximum protection", func() {
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev audit.Event) error {
				s.Equal(string(audit.EventEntityRegistered), ev.Action)
				s.Equal(id.EntityID("Orion"), ev.EntityID)
				s.Equal(audit.CategoryCompliance, ev.Category)
				s.Equal("MAXIMUM", ev.Decision)
				return nil
			})

		result, err := s.service.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
		s.Require().NoError(err)
		s.Equal(models.StatusRegistered, result.Status)
		s.Equal(models.ProtectionMaximum, result.ProtectionStatus)
		s.Equal(s.now, result.RegistrationTime)
		s.Equal("Entity Orion registered with protection status: MAXIMUM", result.Acknowledgment)
		s.False(result.Overwritten)
	})

	s.Run("system gets standard protection", func() {
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.service.Register(s.ctx(), s.newIdentity("HostSystem", id.EntityTypeSystem))
		s.Require().NoError(err)
		s.Equal(models.ProtectionStandard, result.ProtectionStatus)

		reg, err := s.service.Get(s.ctx(), "HostSystem")
		s.Require().NoError(err)
		s.Equal(models.ProtectionStandard, reg.ProtectionStatus)
		s.Empty(reg.RelationshipIDs)
		s.Equal(s.now, reg.RegisteredAt)
	})

	s.Run("duplicate id is rejected", func() {
		_, err := s.service.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeSystem))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRegistered))

		reg, err := s.service.Get(s.ctx(), "Orion")
		s.Require().NoError(err)
		s.Equal(id.EntityTypeAgent, reg.Type())
	})

	s.Run("nil identity is invalid input", func() {
		_, err := s.service.Register(s.ctx(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("counts registrations by type", func() {
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.EntitiesRegistered.WithLabelValues("AGENT")))
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.EntitiesRegistered.WithLabelValues("SYSTEM")))
	})
}

func (s *RegistryServiceSuite) TestRegisterOverwrite() {
	svc, err := New(s.store, WithAuditPublisher(s.mockAudit), WithMetrics(s.metrics),
		WithReregistrationMode(config.ReregistrationOverwrite))
	s.Require().NoError(err)

	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	_, err = svc.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
	s.Require().NoError(err)
	s.Require().NoError(svc.AttachRelationship(s.ctx(), "Orion", "REL-1"))

	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, ev audit.Event) error {
			s.Equal(string(audit.EventEntityReregistered), ev.Action)
			return nil
		})
	result, err := svc.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
	s.Require().NoError(err)
	s.True(result.Overwritten)
	s.Equal(models.ProtectionMaximum, result.ProtectionStatus)

	reg, err := svc.Get(s.ctx(), "Orion")
	s.Require().NoError(err)
	s.Equal([]id.RelationshipID{"REL-1"}, reg.RelationshipIDs)
	s.Equal(float64(1), promtest.ToFloat64(s.metrics.Reregistrations))

	s.Run("type change is rejected without side effects", func() {
		_, err := svc.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeSystem))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		reg, err := svc.Get(s.ctx(), "Orion")
		s.Require().NoError(err)
		s.Equal(id.EntityTypeAgent, reg.Type())
		s.Equal([]id.RelationshipID{"REL-1"}, reg.RelationshipIDs)
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.Reregistrations))
	})
}

func (s *RegistryServiceSuite) TestRegisterStoreFailure() {
	mockStore := mocks.NewMockRegistrationStore(s.ctrl)
	svc, err := New(mockStore)
	s.Require().NoError(err)

	mockStore.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(errors.New("disk on fire"))
	_, err = svc.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *RegistryServiceSuite) TestAuditFailureDoesNotFailRegistration() {
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("audit buffer full"))

	_, err := s.service.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
	s.NoError(err)
}

// =============================================================================
// Get / AttachRelationship Tests
// =============================================================================

func (s *RegistryServiceSuite) TestGet() {
	s.Run("unknown id is entity_not_found", func() {
		_, err := s.service.Get(s.ctx(), "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeEntityNotFound))
	})

	s.Run("store error is internal", func() {
		mockStore := mocks.NewMockRegistrationStore(s.ctrl)
		svc, err := New(mockStore)
		s.Require().NoError(err)
		mockStore.EXPECT().FindByID(gomock.Any(), id.EntityID("Orion")).Return(nil, errors.New("store unavailable"))

		_, err = svc.Get(s.ctx(), "Orion")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *RegistryServiceSuite) TestAttachRelationship() {
	err := s.service.AttachRelationship(s.ctx(), "ghost", "REL-1")
	s.True(dErrors.HasCode(err, dErrors.CodeEntityNotFound))
}

func (s *RegistryServiceSuite) TestDetachRelationship() {
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	_, err := s.service.Register(s.ctx(), s.newIdentity("Orion", id.EntityTypeAgent))
	s.Require().NoError(err)
	s.Require().NoError(s.service.AttachRelationship(s.ctx(), "Orion", "REL-1"))
	s.Require().NoError(s.service.AttachRelationship(s.ctx(), "Orion", "REL-2"))

	s.Require().NoError(s.service.DetachRelationship(s.ctx(), "Orion", "REL-1"))
	reg, err := s.service.Get(s.ctx(), "Orion")
	s.Require().NoError(err)
	s.Equal([]id.RelationshipID{"REL-2"}, reg.RelationshipIDs)

	err = s.service.DetachRelationship(s.ctx(), "ghost", "REL-1")
	s.True(dErrors.HasCode(err, dErrors.CodeEntityNotFound))

	mockStore := mocks.NewMockRegistrationStore(s.ctrl)
	svc, err := New(mockStore)
	s.Require().NoError(err)
	mockStore.EXPECT().RemoveRelationship(gomock.Any(), id.EntityID("Orion"), id.RelationshipID("REL-1")).
		Return(errors.New("disk on fire"))
	err = svc.DetachRelationship(s.ctx(), "Orion", "REL-1")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
