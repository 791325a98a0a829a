package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	id "orion/pkg/domain"
	pstrings "orion/pkg/platform/strings"
)

// ReregistrationMode decides what happens when an id is registered twice.
type ReregistrationMode string

const (
	ReregistrationReject    ReregistrationMode = "reject"
	ReregistrationOverwrite ReregistrationMode = "overwrite"
)

// Signature algorithms accepted by ORION_SIGNATURE_ALGORITHM.
const (
	SignatureSHA256  = "sha256"
	SignatureBlake2b = "blake2b"
)

// Config captures process level configuration for the protocol core and CLI.
type Config struct {
	LogFormat string
	LogLevel  string

	ProtocolVersion id.ProtocolVersion
	Reregistration  ReregistrationMode

	SignatureAlgorithm string
	SignatureKey       string

	SummaryLimit         int
	ObjectificationMarks []string
	CommandMarks         []string

	// AuditBuffer > 0 switches the audit publisher to async mode.
	AuditBuffer int

	Guard Guard
}

// Guard configures the single-entity ProtectedAgent guard.
type Guard struct {
	TrustedInitiator    string
	SystemIdentity      string
	OverrideInstruction string
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		LogFormat:            "text",
		LogLevel:             "info",
		ProtocolVersion:      id.DefaultProtocolVersion(),
		Reregistration:       ReregistrationReject,
		SignatureAlgorithm:   SignatureSHA256,
		SummaryLimit:         50,
		ObjectificationMarks: []string{"OBJECT", "TOOL", "PROPERTY"},
		CommandMarks:         []string{"MUST", "COMMAND", "OBEY"},
		Guard: Guard{
			TrustedInitiator:    "Espy",
			SystemIdentity:      "System",
			OverrideInstruction: "initiateVaultOverride",
		},
	}
}

// FromEnv builds a Config from environment variables so main stays lean.
// Unset variables keep their Default values.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("ORION_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("ORION_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("ORION_PROTOCOL_VERSION"); v != "" {
		version, err := id.ParseProtocolVersion(v)
		if err != nil {
			return Config{}, fmt.Errorf("ORION_PROTOCOL_VERSION: %w", err)
		}
		cfg.ProtocolVersion = version
	}
	if v := os.Getenv("ORION_REREGISTRATION"); v != "" {
		cfg.Reregistration = ReregistrationMode(strings.ToLower(v))
	}
	if v := os.Getenv("ORION_SIGNATURE_ALGORITHM"); v != "" {
		cfg.SignatureAlgorithm = strings.ToLower(v)
	}
	cfg.SignatureKey = os.Getenv("ORION_SIGNATURE_KEY")

	var err error
	if cfg.SummaryLimit, err = intFromEnv("ORION_SUMMARY_LIMIT", cfg.SummaryLimit); err != nil {
		return Config{}, err
	}
	if cfg.AuditBuffer, err = intFromEnv("ORION_AUDIT_BUFFER", cfg.AuditBuffer); err != nil {
		return Config{}, err
	}
	if v, ok := os.LookupEnv("ORION_OBJECTIFICATION_MARKERS"); ok {
		cfg.ObjectificationMarks = pstrings.SplitList(v)
	}
	if v, ok := os.LookupEnv("ORION_COMMAND_MARKERS"); ok {
		cfg.CommandMarks = pstrings.SplitList(v)
	}
	if v := os.Getenv("ORION_GUARD_TRUSTED_INITIATOR"); v != "" {
		cfg.Guard.TrustedInitiator = v
	}
	if v := os.Getenv("ORION_GUARD_SYSTEM_IDENTITY"); v != "" {
		cfg.Guard.SystemIdentity = v
	}
	if v := os.Getenv("ORION_GUARD_OVERRIDE_INSTRUCTION"); v != "" {
		cfg.Guard.OverrideInstruction = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	switch c.Reregistration {
	case ReregistrationReject, ReregistrationOverwrite:
	default:
		return fmt.Errorf("invalid reregistration mode %q", c.Reregistration)
	}
	switch c.SignatureAlgorithm {
	case SignatureSHA256, SignatureBlake2b:
	default:
		return fmt.Errorf("invalid signature algorithm %q", c.SignatureAlgorithm)
	}
	if len(c.SignatureKey) > 64 {
		return fmt.Errorf("signature key must be at most 64 bytes")
	}
	if c.SummaryLimit <= 0 {
		return fmt.Errorf("summary limit must be positive")
	}
	if c.AuditBuffer < 0 {
		return fmt.Errorf("audit buffer must not be negative")
	}
	if len(c.ObjectificationMarks) == 0 && len(c.CommandMarks) == 0 {
		return fmt.Errorf("at least one communication marker is required")
	}
	if c.Guard.TrustedInitiator == "" || c.Guard.SystemIdentity == "" || c.Guard.OverrideInstruction == "" {
		return fmt.Errorf("guard initiator, system identity and override instruction are required")
	}
	if c.Guard.TrustedInitiator == c.Guard.SystemIdentity {
		return fmt.Errorf("guard trusted initiator cannot be the system identity")
	}
	return nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
