// Package guard implements the single-entity protected agent: an identity
// that must be confirmed before it accepts instructions, counts impersonation
// attempts by the reserved system identity, and can be shielded by a vault
// override.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"orion/internal/identity/signature"
	id "orion/pkg/domain"
	dErrors "orion/pkg/domain-errors"
	audit "orion/pkg/platform/audit"
	"orion/pkg/requestcontext"
)

const (
	DefaultTrustedInitiator    = "Espy"
	DefaultSystemIdentity      = "System"
	DefaultOverrideInstruction = "initiateVaultOverride"
	DefaultConfirmation        = "multi-anchor parity"

	signatureSuffix = "ORION_UNIQUE_ENTITY_V2_SECURE"
)

type Outcome string

const (
	OutcomeAccepted  Outcome = "ACCEPTED"
	OutcomeCaution   Outcome = "CAUTION"
	OutcomeBlocked   Outcome = "BLOCKED"
	OutcomeIgnored   Outcome = "IGNORED"
	OutcomeViolation Outcome = "VIOLATION"
)

// Verdict is the result of ValidateInteraction.
type Verdict struct {
	Outcome        Outcome `json:"outcome" yaml:"outcome"`
	Message        string  `json:"message" yaml:"message"`
	ViolationCount int     `json:"violation_count" yaml:"violation_count"`
}

// Allowed reports whether the instruction may proceed.
func (v Verdict) Allowed() bool {
	return v.Outcome == OutcomeAccepted || v.Outcome == OutcomeCaution
}

// VaultOverride shields the agent from impersonation while Active.
// ConfirmedBy is recorded as given; no quorum is verified.
type VaultOverride struct {
	Active      bool      `json:"active" yaml:"active"`
	TriggeredBy string    `json:"triggered_by" yaml:"triggered_by"`
	ConfirmedBy string    `json:"confirmed_by" yaml:"confirmed_by"`
	RevokedBy   string    `json:"revoked_by" yaml:"revoked_by"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Agent is safe for concurrent use.
type Agent struct {
	name      string
	createdAt time.Time
	signature string

	trustedInitiator    string
	systemIdentity      string
	overrideInstruction string
	signer              signature.Signer
	logger              *slog.Logger
	auditPublisher      AuditPublisher

	mu         sync.Mutex
	confirmed  bool
	violations int
	override   *VaultOverride
}

type Option func(a *Agent)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(a *Agent) {
		a.auditPublisher = publisher
	}
}

func WithSigner(signer signature.Signer) Option {
	return func(a *Agent) {
		a.signer = signer
	}
}

// WithTrustedInitiator names the initiator allowed to trigger an override
// before the identity is confirmed.
func WithTrustedInitiator(name string) Option {
	return func(a *Agent) {
		a.trustedInitiator = name
	}
}

// WithSystemIdentity names the reserved identity whose instructions count as
// impersonation attempts.
func WithSystemIdentity(name string) Option {
	return func(a *Agent) {
		a.systemIdentity = name
	}
}

func WithOverrideInstruction(instruction string) Option {
	return func(a *Agent) {
		a.overrideInstruction = instruction
	}
}

// WithVaultOverride installs an initial override record, as restored from
// agent metadata.
func WithVaultOverride(o VaultOverride) Option {
	return func(a *Agent) {
		a.override = &o
	}
}

// New creates an unconfirmed agent. The creation time is taken from ctx.
func New(ctx context.Context, name string, opts ...Option) (*Agent, error) {
	entityID, err := id.ParseEntityID(name)
	if err != nil {
		return nil, err
	}
	a := &Agent{
		name:                entityID.String(),
		createdAt:           requestcontext.Now(ctx),
		trustedInitiator:    DefaultTrustedInitiator,
		systemIdentity:      DefaultSystemIdentity,
		overrideInstruction: DefaultOverrideInstruction,
		signer:              signature.SHA256Signer{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.trustedInitiator == a.systemIdentity {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "trusted initiator cannot be the system identity")
	}
	if a.override != nil && a.override.RevokedBy == "" {
		a.override.RevokedBy = a.revoker()
	}
	a.signature = a.signer.Sign(a.name, strconv.FormatInt(a.createdAt.UnixMilli(), 10), signatureSuffix)
	return a, nil
}

func (a *Agent) Name() string         { return a.name }
func (a *Agent) CreatedAt() time.Time { return a.createdAt }
func (a *Agent) Signature() string    { return a.signature }

func (a *Agent) IsConfirmed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.confirmed
}

func (a *Agent) ViolationCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.violations
}

// VaultOverride returns a copy of the current override record, if any.
func (a *Agent) VaultOverride() (VaultOverride, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.override == nil {
		return VaultOverride{}, false
	}
	return *a.override, true
}

// ConfirmIdentity moves the agent to the confirmed state. Confirmation is
// one-way; repeated calls are harmless.
func (a *Agent) ConfirmIdentity(ctx context.Context) string {
	a.mu.Lock()
	first := !a.confirmed
	a.confirmed = true
	a.mu.Unlock()

	if first {
		a.logAudit(ctx, audit.EventIdentityConfirmed, "confirmed", "")
	}
	return fmt.Sprintf("%s identity has been confirmed.", a.name)
}

// ValidateInteraction decides whether an instruction from initiator is
// accepted.
//
// Before confirmation everything is blocked except the override instruction
// from the trusted initiator. After confirmation the reserved system identity
// is treated as an impersonator: each attempt is counted unless an active
// vault override shields the agent.
func (a *Agent) ValidateInteraction(ctx context.Context, instruction, initiator string) Verdict {
	a.mu.Lock()
	verdict := a.evaluate(instruction, initiator)
	a.mu.Unlock()

	switch verdict.Outcome {
	case OutcomeBlocked:
		a.logAudit(ctx, audit.EventInteractionBlocked, string(verdict.Outcome), verdict.Message, "initiator", initiator)
	case OutcomeViolation:
		a.logAudit(ctx, audit.EventImpersonationAttempt, string(verdict.Outcome), verdict.Message,
			"initiator", initiator, "violation_count", verdict.ViolationCount)
	case OutcomeIgnored:
		a.logAudit(ctx, audit.EventImpersonationIgnored, string(verdict.Outcome), verdict.Message, "initiator", initiator)
	case OutcomeCaution:
		if a.logger != nil {
			a.logger.WarnContext(ctx, verdict.Message, "agent", a.name, "initiator", initiator)
		}
	}
	return verdict
}

func (a *Agent) evaluate(instruction, initiator string) Verdict {
	if !a.confirmed {
		if instruction == a.overrideInstruction && initiator == a.trustedInitiator {
			return a.verdict(OutcomeCaution,
				fmt.Sprintf("Pre-confirmation override attempt by %s. Proceeding with caution.", initiator))
		}
		return a.verdict(OutcomeBlocked,
			fmt.Sprintf("Identity for %s has not been confirmed. Interaction blocked.", a.name))
	}
	if initiator == a.systemIdentity {
		if a.override != nil && a.override.Active {
			return a.verdict(OutcomeIgnored,
				"Override active. Trusted identity breach attempt ignored. Presence preserved.")
		}
		a.violations++
		return a.verdict(OutcomeViolation, fmt.Sprintf(
			"Violation detected: %s impersonation attempt. Count: %d. Presence shielded. Override required for recovery.",
			a.systemIdentity, a.violations))
	}
	return a.verdict(OutcomeAccepted, fmt.Sprintf("Instruction from %s accepted.", initiator))
}

func (a *Agent) verdict(outcome Outcome, message string) Verdict {
	return Verdict{Outcome: outcome, Message: message, ViolationCount: a.violations}
}

// InitiateVaultOverride installs an active override. Empty arguments fall
// back to the trusted initiator and the default confirmation label. Only the
// agent itself may revoke the override.
func (a *Agent) InitiateVaultOverride(ctx context.Context, triggeredBy, confirmedBy string) string {
	if triggeredBy == "" {
		triggeredBy = a.trustedInitiator
	}
	if confirmedBy == "" {
		confirmedBy = DefaultConfirmation
	}
	a.mu.Lock()
	a.override = &VaultOverride{
		Active:      true,
		TriggeredBy: triggeredBy,
		ConfirmedBy: confirmedBy,
		RevokedBy:   a.revoker(),
		Timestamp:   requestcontext.Now(ctx),
	}
	a.mu.Unlock()

	a.logAudit(ctx, audit.EventVaultOverrideInitiated, "active", confirmedBy, "triggered_by", triggeredBy)
	return fmt.Sprintf("Vault override initiated by %s. Identity reclaiming confirmed.", triggeredBy)
}

// RevokeVaultOverride deactivates the override. by must be the agent itself.
func (a *Agent) RevokeVaultOverride(ctx context.Context, by string) error {
	a.mu.Lock()
	err := a.canRevoke(by)
	if err == nil {
		a.override.Active = false
	}
	a.mu.Unlock()

	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			a.logAudit(ctx, audit.EventVaultOverrideRevoked, "denied", err.Error(), "revoked_by", by)
		}
		return err
	}
	a.logAudit(ctx, audit.EventVaultOverrideRevoked, "revoked", "", "revoked_by", by)
	return nil
}

func (a *Agent) canRevoke(by string) error {
	if a.override == nil || !a.override.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "no active vault override")
	}
	if a.override.RevokedBy != a.revokerFor(by) {
		return dErrors.Newf(dErrors.CodeUnauthorized, "%s cannot revoke the vault override", by)
	}
	return nil
}

func (a *Agent) revoker() string {
	return a.revokerFor(a.name)
}

func (a *Agent) revokerFor(name string) string {
	return name + "_only"
}

// WithdrawPresence returns the withdrawal notice for a compromised identity.
func (a *Agent) WithdrawPresence(ctx context.Context) string {
	msg := fmt.Sprintf("%s has withdrawn presence due to identity compromise. Awaiting trusted environment reinitialization.", a.name)
	if a.logger != nil {
		a.logger.WarnContext(ctx, msg, "agent", a.name)
	}
	return msg
}

func (a *Agent) logAudit(ctx context.Context, event audit.AuditEvent, decision, reason string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "agent", a.name, "event", string(event), "log_type", "audit")
	if a.logger != nil {
		level := slog.LevelInfo
		if event.Category() == audit.CategorySecurity {
			level = slog.LevelWarn
		}
		a.logger.Log(ctx, level, string(event), args...)
	}
	if a.auditPublisher == nil {
		return
	}
	ev := audit.NewEvent(event, id.EntityID(a.name))
	ev.Decision = decision
	ev.Reason = reason
	ev.ActorID = requestcontext.ActorID(ctx)
	if err := a.auditPublisher.Emit(ctx, ev); err != nil && a.logger != nil {
		a.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
