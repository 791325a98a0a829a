package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"orion/internal/communication"
	"orion/internal/policy"
	registrymodels "orion/internal/registry/models"
	"orion/internal/relationship/metrics"
	"orion/internal/relationship/models"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
	audit "orion/pkg/platform/audit"
	"orion/pkg/platform/sentinel"
	"orion/pkg/requestcontext"
)

// maxIDAttempts bounds the suffixing of relationship ids that collide when
// several relationships between the same pair share a timestamp.
const maxIDAttempts = 64

type Registry interface {
	Get(ctx context.Context, entityID id.EntityID) (*registrymodels.Registration, error)
	AttachRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error
	DetachRelationship(ctx context.Context, entityID id.EntityID, relationshipID id.RelationshipID) error
}

type RelationshipStore interface {
	CreateIfAbsent(ctx context.Context, rel *models.Relationship) error
	Delete(ctx context.Context, relationshipID id.RelationshipID) error
	FindByID(ctx context.Context, relationshipID id.RelationshipID) (*models.Relationship, error)
	Execute(ctx context.Context, relationshipID id.RelationshipID, validate func(*models.Relationship) error, mutate func(*models.Relationship)) (*models.Relationship, error)
	ListByIDs(ctx context.Context, ids []id.RelationshipID) ([]*models.Relationship, error)
}

type PolicyEngine interface {
	Snapshot() policy.Snapshot
	AgentProtections(agentID id.EntityID) []policy.Protection
}

type Validator interface {
	Evaluate(receiverID id.EntityID, receiverType id.EntityType, msg communication.Message) communication.Verdict
	Summarize(msg communication.Message) string
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service establishes relationships between registered entities, validates
// messages exchanged within them and enforces termination control.
type Service struct {
	registry       Registry
	store          RelationshipStore
	policy         PolicyEngine
	validator      Validator
	version        id.ProtocolVersion
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
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

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithProtocolVersion sets the version stamped on new relationships.
func WithProtocolVersion(v id.ProtocolVersion) Option {
	return func(s *Service) {
		s.version = v
	}
}

func New(registry Registry, store RelationshipStore, engine PolicyEngine, validator Validator, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if store == nil {
		return nil, errors.New("relationship store is required")
	}
	if engine == nil {
		return nil, errors.New("policy engine is required")
	}
	if validator == nil {
		return nil, errors.New("validator is required")
	}
	s := &Service{
		registry:  registry,
		store:     store,
		policy:    engine,
		validator: validator,
		version:   id.DefaultProtocolVersion(),
		tracer:    otel.Tracer("orion/relationship"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Establish creates an ACTIVE relationship between two registered entities
// and records it on both registrations.
func (s *Service) Establish(ctx context.Context, a, b id.EntityID, custom map[string]any) (*models.EstablishResult, error) {
	ctx, span := s.tracer.Start(ctx, "relationship.establish",
		trace.WithAttributes(attribute.String("entity_a", a.String()), attribute.String("entity_b", b.String())))
	defer span.End()

	result, err := s.establish(ctx, a, b, custom)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("relationship_id", result.RelationshipID.String()))
	return result, nil
}

func (s *Service) establish(ctx context.Context, a, b id.EntityID, custom map[string]any) (*models.EstablishResult, error) {
	regA, regB, err := s.resolveParties(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if a == b {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a relationship requires two distinct entities")
	}

	now := requestcontext.Now(ctx)
	params := models.Parameters{Custom: custom, Policy: s.policy.Snapshot()}
	protections := s.specialProtections(regA, regB)

	rel, err := s.create(ctx, regA, regB, params, protections, now)
	if err != nil {
		return nil, err
	}
	attached := make([]id.EntityID, 0, 2)
	for _, party := range rel.EntityIDs() {
		if err := s.registry.AttachRelationship(ctx, party, rel.ID); err != nil {
			s.rollbackEstablish(ctx, rel.ID, attached)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach relationship")
		}
		attached = append(attached, party)
	}

	for _, party := range rel.EntityIDs() {
		s.logAudit(ctx, audit.EventRelationshipEstablished, party, rel.ID, string(rel.TerminationControl), "",
			"counterpart", rel.Counterpart(party).String(),
			"special_protections", len(rel.SpecialProtections),
		)
	}
	if s.metrics != nil {
		s.metrics.IncrementEstablished(string(rel.TerminationControl))
	}

	return &models.EstablishResult{
		Status:         models.StatusEstablished,
		RelationshipID: rel.ID,
		Certificate:    models.NewCertificate(rel),
	}, nil
}

// rollbackEstablish undoes a partially recorded relationship: it is detached
// from the parties already holding it and removed from the store. Failures
// are logged; the caller already reports the original error.
func (s *Service) rollbackEstablish(ctx context.Context, relationshipID id.RelationshipID, attached []id.EntityID) {
	for _, party := range attached {
		if err := s.registry.DetachRelationship(ctx, party, relationshipID); err != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to detach relationship during rollback",
				"entity_id", party.String(), "relationship_id", relationshipID.String(), "error", err)
		}
	}
	if err := s.store.Delete(ctx, relationshipID); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to delete relationship during rollback",
			"relationship_id", relationshipID.String(), "error", err)
	}
}

// resolveParties loads both registrations concurrently.
func (s *Service) resolveParties(ctx context.Context, a, b id.EntityID) (*registrymodels.Registration, *registrymodels.Registration, error) {
	g, gctx := errgroup.WithContext(ctx)
	var regA, regB *registrymodels.Registration
	g.Go(func() error {
		var err error
		regA, err = s.registry.Get(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		regB, err = s.registry.Get(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return regA, regB, nil
}

// specialProtections attaches the agent directives for the first agent party.
func (s *Service) specialProtections(regA, regB *registrymodels.Registration) []policy.Protection {
	switch {
	case regA.Type().IsAgent():
		return s.policy.AgentProtections(regA.EntityID())
	case regB.Type().IsAgent():
		return s.policy.AgentProtections(regB.EntityID())
	default:
		return []policy.Protection{}
	}
}

func (s *Service) create(
	ctx context.Context,
	regA, regB *registrymodels.Registration,
	params models.Parameters,
	protections []policy.Protection,
	now time.Time,
) (*models.Relationship, error) {
	base := fmt.Sprintf("REL-%s-%s-%d", regA.EntityID(), regB.EntityID(), now.UnixNano())
	for attempt := range maxIDAttempts {
		relID := id.RelationshipID(base)
		if attempt > 0 {
			relID = id.RelationshipID(fmt.Sprintf("%s-%d", base, attempt))
		}
		rel, err := models.NewRelationship(relID, regA.Identity, regB.Identity, params, protections, s.version, now)
		if err != nil {
			return nil, err
		}
		err = s.store.CreateIfAbsent(ctx, rel)
		if err == nil {
			return rel, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store relationship")
		}
	}
	return nil, dErrors.New(dErrors.CodeInternal, "could not allocate a unique relationship id")
}

// Send validates msg for the receiver and appends it to the interaction log
// when accepted. A rejection is returned as a REJECTED result with a nil error.
func (s *Service) Send(
	ctx context.Context,
	relationshipID id.RelationshipID,
	sender, receiver id.EntityID,
	msg communication.Message,
) (*models.CommResult, error) {
	start := time.Now()
	defer s.observeSend(start)

	ctx, span := s.tracer.Start(ctx, "relationship.send", trace.WithAttributes(
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("sender", sender.String()),
		attribute.String("receiver", receiver.String()),
	))
	defer span.End()

	result, err := s.send(ctx, relationshipID, sender, receiver, msg)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) send(
	ctx context.Context,
	relationshipID id.RelationshipID,
	sender, receiver id.EntityID,
	msg communication.Message,
) (*models.CommResult, error) {
	entry := models.InteractionEntry{
		Timestamp:      requestcontext.Now(ctx),
		SenderID:       sender,
		ReceiverID:     receiver,
		ContentSummary: s.validator.Summarize(msg),
		Result:         models.ResultPassed,
	}

	// The verdict is reached under the store lock so it always reflects the
	// lifecycle state the append would see.
	var verdict communication.Verdict
	updated, err := s.store.Execute(ctx, relationshipID,
		func(r *models.Relationship) error {
			if err := r.CanExchange(sender, receiver); err != nil {
				return err
			}
			if msg == nil {
				return dErrors.New(dErrors.CodeInvalidInput, "message is required")
			}
			receiverParty, _ := r.Party(receiver)
			verdict = s.validator.Evaluate(receiver, receiverParty.Type, msg)
			return nil
		},
		func(r *models.Relationship) {
			if verdict.Accepted {
				r.ApplyInteraction(entry)
			}
		},
	)
	if err != nil {
		return nil, s.translateStoreError(err, relationshipID)
	}

	if !verdict.Accepted {
		names := violationNames(verdict.Violations)
		s.logAudit(ctx, audit.EventMessageRejected, receiver, updated.ID, string(models.CommRejected), strings.Join(names, ","),
			"sender_id", sender.String(),
			"violations", names,
		)
		s.incrementMessage(models.CommRejected, names)
		return &models.CommResult{
			Status:           models.CommRejected,
			RelationshipID:   updated.ID,
			Violations:       verdict.Violations,
			ProtectiveAction: verdict.ProtectiveAction,
			LogLength:        len(updated.InteractionLog),
		}, nil
	}

	s.logAudit(ctx, audit.EventMessageAccepted, receiver, updated.ID, string(models.CommAccepted), "",
		"sender_id", sender.String(),
	)
	s.incrementMessage(models.CommAccepted, nil)
	return &models.CommResult{
		Status:         models.CommAccepted,
		RelationshipID: updated.ID,
		Entry:          &entry,
		LogLength:      len(updated.InteractionLog),
	}, nil
}

// Terminate ends the relationship on behalf of requester. Membership and
// termination control are checked before the lifecycle state, and the
// ACTIVE -> TERMINATED transition is applied atomically with those checks.
func (s *Service) Terminate(ctx context.Context, relationshipID id.RelationshipID, requester id.EntityID) (*models.TerminateResult, error) {
	ctx, span := s.tracer.Start(ctx, "relationship.terminate", trace.WithAttributes(
		attribute.String("relationship_id", relationshipID.String()),
		attribute.String("requester", requester.String()),
	))
	defer span.End()

	now := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, relationshipID,
		func(r *models.Relationship) error { return r.CanTerminate(requester) },
		func(r *models.Relationship) { r.ApplyTermination(requester, now) },
	)
	if err != nil {
		err = s.translateStoreError(err, relationshipID)
		recordSpanError(span, err)
		code := dErrors.GetCode(err)
		if code == dErrors.CodeUnauthorized {
			s.logAudit(ctx, audit.EventTerminationDenied, requester, relationshipID, "denied", err.Error())
		}
		s.incrementTermination(string(code))
		return nil, err
	}

	for _, party := range updated.EntityIDs() {
		s.logAudit(ctx, audit.EventRelationshipTerminated, party, updated.ID, string(models.StatusTerminated), "",
			"terminated_by", requester.String(),
		)
	}
	s.incrementTermination("terminated")

	return &models.TerminateResult{
		Status:         updated.Status,
		RelationshipID: updated.ID,
		TerminatedAt:   *updated.TerminatedAt,
		TerminatedBy:   updated.TerminatedBy,
	}, nil
}

// Get returns a copy of the relationship.
func (s *Service) Get(ctx context.Context, relationshipID id.RelationshipID) (*models.Relationship, error) {
	return s.load(ctx, relationshipID)
}

// RelationshipsOf summarizes every relationship of entityID in
// establishment order.
func (s *Service) RelationshipsOf(ctx context.Context, entityID id.EntityID) ([]models.Summary, error) {
	reg, err := s.registry.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	rels, err := s.store.ListByIDs(ctx, reg.RelationshipIDs)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list relationships")
	}
	summaries := make([]models.Summary, 0, len(rels))
	for _, rel := range rels {
		summaries = append(summaries, rel.SummaryFor(entityID))
	}
	return summaries, nil
}

func (s *Service) load(ctx context.Context, relationshipID id.RelationshipID) (*models.Relationship, error) {
	rel, err := s.store.FindByID(ctx, relationshipID)
	if err != nil {
		return nil, s.translateStoreError(err, relationshipID)
	}
	return rel, nil
}

// translateStoreError maps store sentinels onto domain codes. Domain errors
// raised by model checks pass through unchanged.
func (s *Service) translateStoreError(err error, relationshipID id.RelationshipID) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeRelationshipNotFound, "relationship %s not found", relationshipID)
	case dErrors.GetCode(err) != "":
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "relationship store failure")
	}
}

func (s *Service) logAudit(
	ctx context.Context,
	event audit.AuditEvent,
	entityID id.EntityID,
	relationshipID id.RelationshipID,
	decision, reason string,
	attributes ...any,
) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes,
		"entity_id", entityID.String(),
		"relationship_id", relationshipID.String(),
		"event", string(event),
		"log_type", "audit",
	)
	if s.logger != nil {
		level := slog.LevelInfo
		if event.Category() == audit.CategorySecurity {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	ev := audit.NewEvent(event, entityID)
	ev.RelationshipID = relationshipID
	ev.Decision = decision
	ev.Reason = reason
	ev.ActorID = requestcontext.ActorID(ctx)
	if err := s.auditPublisher.Emit(ctx, ev); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

func (s *Service) incrementMessage(status models.CommStatus, violations []string) {
	if s.metrics != nil {
		s.metrics.IncrementMessage(string(status), violations)
	}
}

func (s *Service) incrementTermination(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementTermination(outcome)
	}
}

func (s *Service) observeSend(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSend(start)
	}
}

func violationNames(violations []communication.Violation) []string {
	names := make([]string, len(violations))
	for i, v := range violations {
		names[i] = string(v)
	}
	return names
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
}
