package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orion/internal/identity"
	"orion/internal/platform/config"
	"orion/internal/registry/metrics"
	"orion/internal/registry/models"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
	audit "orion/pkg/platform/audit"
	"orion/pkg/platform/sentinel"
	"orion/pkg/requestcontext"
)

type RegistrationStore interface {
	CreateIfAbsent(ctx context.Context, reg *models.Registration) error
	Overwrite(ctx context.Context, reg *models.Registration) (bool, error)
	FindByID(ctx context.Context, entityID id.EntityID) (*models.Registration, error)
	AppendRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error
	RemoveRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns entity registrations.
type Service struct {
	store          RegistrationStore
	mode           config.ReregistrationMode
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithReregistrationMode selects how Register treats an already registered id.
func WithReregistrationMode(mode config.ReregistrationMode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

func New(store RegistrationStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("registration store is required")
	}
	s := &Service{store: store, mode: config.ReregistrationReject}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register records ident in the registry. Agents get MAXIMUM protection,
// everything else STANDARD. An id that is already registered is rejected
// with CodeAlreadyRegistered unless the service runs in overwrite mode.
// Overwrite keeps the entity type: a different type is CodeInvalidInput.
func (s *Service) Register(ctx context.Context, ident *identity.Identity) (*models.RegistrationResult, error) {
	start := time.Now()
	defer s.observeRegister(start)

	if ident == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity is required")
	}
	reg := models.NewRegistration(ident.Public(), requestcontext.Now(ctx))

	overwritten := false
	switch s.mode {
	case config.ReregistrationOverwrite:
		existed, err := s.store.Overwrite(ctx, reg)
		if err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return nil, dErrors.Newf(dErrors.CodeInvalidInput, "entity %s cannot change type on re-registration", reg.EntityID())
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
		}
		overwritten = existed
	default:
		if err := s.store.CreateIfAbsent(ctx, reg); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return nil, dErrors.Newf(dErrors.CodeAlreadyRegistered, "entity %s is already registered", reg.EntityID())
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
		}
	}

	event := audit.EventEntityRegistered
	if overwritten {
		event = audit.EventEntityReregistered
		s.incrementReregistered()
	}
	s.logAudit(ctx, event, reg.EntityID(), string(reg.ProtectionStatus),
		"entity_type", reg.Type().String(),
	)
	s.incrementRegistered(reg.Type())

	return models.NewRegistrationResult(reg, overwritten), nil
}

// Get returns the registration for entityID.
func (s *Service) Get(ctx context.Context, entityID id.EntityID) (*models.Registration, error) {
	reg, err := s.store.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeEntityNotFound, "entity %s is not registered", entityID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return reg, nil
}

// AttachRelationship records relationshipID on the entity's registration.
func (s *Service) AttachRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error {
	if err := s.store.AppendRelationship(ctx, entityID, relationshipID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeEntityNotFound, "entity %s is not registered", entityID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach relationship")
	}
	return nil
}

// DetachRelationship removes relationshipID from the entity's registration.
func (s *Service) DetachRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error {
	if err := s.store.RemoveRelationship(ctx, entityID, relationshipID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeEntityNotFound, "entity %s is not registered", entityID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to detach relationship")
	}
	return nil
}

// logAudit logs event and files it under entityID. decision is the protection
// status granted.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, entityID id.EntityID, decision string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "entity_id", entityID.String(), "protection_status", decision, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	ev := audit.NewEvent(event, entityID)
	ev.Decision = decision
	ev.ActorID = requestcontext.ActorID(ctx)
	if err := s.auditPublisher.Emit(ctx, ev); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func (s *Service) incrementRegistered(t id.EntityType) {
	if s.metrics != nil {
		s.metrics.IncrementRegistered(t.String())
	}
}

func (s *Service) incrementReregistered() {
	if s.metrics != nil {
		s.metrics.Reregistrations.Inc()
	}
}

func (s *Service) observeRegister(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegister(start)
	}
}
