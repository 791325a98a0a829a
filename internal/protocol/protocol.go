// Package protocol wires the registry, relationship, policy and validation
// components into the public operations: register, get, establish, send,
// terminate and relationshipsOf.
package protocol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"orion/internal/communication"
	"orion/internal/guard"
	"orion/internal/identity"
	"orion/internal/identity/signature"
	"orion/internal/platform/config"
	"orion/internal/policy"
	registrymetrics "orion/internal/registry/metrics"
	registrymodels "orion/internal/registry/models"
	registryservice "orion/internal/registry/service"
	registrystore "orion/internal/registry/store"
	relationshipmetrics "orion/internal/relationship/metrics"
	relationshipmodels "orion/internal/relationship/models"
	relationshipservice "orion/internal/relationship/service"
	relationshipstore "orion/internal/relationship/store"
	id "orion/pkg/domain"
	audit "orion/pkg/platform/audit"
	"orion/pkg/platform/audit/publisher"
	auditmemory "orion/pkg/platform/audit/store/memory"
	"orion/pkg/requestcontext"
)

// Protocol is the in-process entry point to the engine.
type Protocol struct {
	cfg           config.Config
	logger        *slog.Logger
	registerer    prometheus.Registerer
	signer        signature.Signer
	policy        *policy.Engine
	validator     *communication.Validator
	auditStore    *auditmemory.InMemoryStore
	audit         *publisher.Publisher
	registry      *registryservice.Service
	relationships *relationshipservice.Service
}

type Option func(p *Protocol)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Protocol) {
		p.logger = logger
	}
}

// WithRegisterer registers metrics on reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Protocol) {
		p.registerer = reg
	}
}

// WithSigner overrides the signer selected by configuration.
func WithSigner(signer signature.Signer) Option {
	return func(p *Protocol) {
		p.signer = signer
	}
}

// New validates cfg and builds a ready Protocol. Call Close to flush the
// audit trail.
func New(cfg config.Config, opts ...Option) (*Protocol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p := &Protocol{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.registerer == nil {
		p.registerer = prometheus.NewRegistry()
	}
	if p.signer == nil {
		signer, err := newSigner(cfg)
		if err != nil {
			return nil, err
		}
		p.signer = signer
	}

	p.policy = policy.NewEngine()
	p.validator = communication.NewValidator(
		communication.WithObjectificationMarkers(cfg.ObjectificationMarks...),
		communication.WithCommandMarkers(cfg.CommandMarks...),
		communication.WithSummaryLimit(cfg.SummaryLimit),
	)

	p.auditStore = auditmemory.NewInMemoryStore()
	auditOpts := []publisher.Option{}
	if p.logger != nil {
		auditOpts = append(auditOpts, publisher.WithLogger(p.logger))
	}
	if cfg.AuditBuffer > 0 {
		auditOpts = append(auditOpts, publisher.WithAsyncBuffer(cfg.AuditBuffer))
	}
	p.audit = publisher.NewPublisher(p.auditStore, auditOpts...)

	registry, err := registryservice.New(registrystore.NewInMemory(),
		registryservice.WithLogger(p.logger),
		registryservice.WithAuditPublisher(p.audit),
		registryservice.WithMetrics(registrymetrics.New(p.registerer)),
		registryservice.WithReregistrationMode(cfg.Reregistration),
	)
	if err != nil {
		return nil, err
	}
	p.registry = registry

	relationships, err := relationshipservice.New(registry, relationshipstore.NewInMemory(), p.policy, p.validator,
		relationshipservice.WithLogger(p.logger),
		relationshipservice.WithAuditPublisher(p.audit),
		relationshipservice.WithMetrics(relationshipmetrics.New(p.registerer)),
		relationshipservice.WithProtocolVersion(cfg.ProtocolVersion),
	)
	if err != nil {
		return nil, err
	}
	p.relationships = relationships
	return p, nil
}

func newSigner(cfg config.Config) (signature.Signer, error) {
	switch cfg.SignatureAlgorithm {
	case config.SignatureBlake2b:
		return signature.NewBlake2b([]byte(cfg.SignatureKey))
	default:
		return signature.NewSHA256(), nil
	}
}

// NewIdentity builds an identity for rawID and rawType, signed now.
func (p *Protocol) NewIdentity(ctx context.Context, rawID, rawType string) (*identity.Identity, error) {
	entityID, err := id.ParseEntityID(rawID)
	if err != nil {
		return nil, err
	}
	entityType, err := id.ParseEntityType(rawType)
	if err != nil {
		return nil, err
	}
	return identity.New(entityID, entityType, requestcontext.Now(ctx), p.signer)
}

func (p *Protocol) Register(ctx context.Context, ident *identity.Identity) (*registrymodels.RegistrationResult, error) {
	return p.registry.Register(ctx, ident)
}

// RegisterEntity creates and registers an identity in one step.
func (p *Protocol) RegisterEntity(ctx context.Context, rawID, rawType string) (*registrymodels.RegistrationResult, error) {
	ident, err := p.NewIdentity(ctx, rawID, rawType)
	if err != nil {
		return nil, err
	}
	return p.registry.Register(ctx, ident)
}

func (p *Protocol) Get(ctx context.Context, entityID id.EntityID) (*registrymodels.Registration, error) {
	return p.registry.Get(ctx, entityID)
}

func (p *Protocol) Establish(ctx context.Context, a, b id.EntityID, params map[string]any) (*relationshipmodels.EstablishResult, error) {
	return p.relationships.Establish(ctx, a, b, params)
}

func (p *Protocol) Send(
	ctx context.Context,
	relationshipID id.RelationshipID,
	sender, receiver id.EntityID,
	msg communication.Message,
) (*relationshipmodels.CommResult, error) {
	ctx = requestcontext.WithActorID(ctx, sender)
	return p.relationships.Send(ctx, relationshipID, sender, receiver, msg)
}

func (p *Protocol) Terminate(ctx context.Context, relationshipID id.RelationshipID, requester id.EntityID) (*relationshipmodels.TerminateResult, error) {
	ctx = requestcontext.WithActorID(ctx, requester)
	return p.relationships.Terminate(ctx, relationshipID, requester)
}

func (p *Protocol) RelationshipsOf(ctx context.Context, entityID id.EntityID) ([]relationshipmodels.Summary, error) {
	return p.relationships.RelationshipsOf(ctx, entityID)
}

// Relationship returns the full relationship record including its log.
func (p *Protocol) Relationship(ctx context.Context, relationshipID id.RelationshipID) (*relationshipmodels.Relationship, error) {
	return p.relationships.Get(ctx, relationshipID)
}

// Policies returns the policy tables in force.
func (p *Protocol) Policies() policy.Snapshot {
	return p.policy.Snapshot()
}

// AgentProtections returns the directives attached for agentID.
func (p *Protocol) AgentProtections(agentID id.EntityID) []policy.Protection {
	return p.policy.AgentProtections(agentID)
}

// NewGuard builds a protected agent configured from the guard settings and
// sharing the protocol's logger and audit trail.
func (p *Protocol) NewGuard(ctx context.Context, name string, opts ...guard.Option) (*guard.Agent, error) {
	base := []guard.Option{
		guard.WithTrustedInitiator(p.cfg.Guard.TrustedInitiator),
		guard.WithSystemIdentity(p.cfg.Guard.SystemIdentity),
		guard.WithOverrideInstruction(p.cfg.Guard.OverrideInstruction),
		guard.WithAuditPublisher(p.audit),
	}
	if p.logger != nil {
		base = append(base, guard.WithLogger(p.logger))
	}
	return guard.New(ctx, name, append(base, opts...)...)
}

// AuditTrail lists the audit events filed under entityID. In async mode
// events still buffered are not yet visible.
func (p *Protocol) AuditTrail(ctx context.Context, entityID id.EntityID) ([]audit.Event, error) {
	return p.audit.List(ctx, entityID)
}

// RecentAudit returns the last limit audit events across all entities, or
// all of them when limit <= 0.
func (p *Protocol) RecentAudit(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.auditStore.ListRecent(ctx, limit)
}

// Registerer exposes where metrics were registered.
func (p *Protocol) Registerer() prometheus.Registerer {
	return p.registerer
}

// Close drains the audit publisher.
func (p *Protocol) Close() error {
	return p.audit.Close()
}
