package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"orion/internal/platform/config"
	"orion/internal/platform/logger"
	"orion/internal/protocol"
	"orion/pkg/requestcontext"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	output    string
	requestID string

	cfg    config.Config
	logger *slog.Logger
	proto  *protocol.Protocol
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "orion",
		Short: "Entity registration and relationship-policy engine",
		Long: `orion registers agents and systems, establishes policy-governed
relationships between them, validates the messages they exchange and
enforces who may end a relationship.

Available commands:
  relate - register two entities, relate them, exchange messages, terminate
  demo   - run the Orion / HostSystem walkthrough
  guard  - drive a single protected agent through a sequence of steps
  policy - print the protection and communication policy tables

Examples:
  orion demo -o json
  orion relate Orion:AGENT HostSystem:SYSTEM --send "HostSystem>Orion:Hello" --terminate Orion
  orion guard Orion validate:Espy:initiateVaultOverride confirm validate:System:analyze report`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatYAML, "Output format: yaml or json")
	root.PersistentFlags().StringVar(&a.requestID, "request-id", "", "Request id stamped on audit events (random when empty)")

	root.AddCommand(newRelateCmd(a))
	root.AddCommand(newDemoCmd(a))
	root.AddCommand(newGuardCmd(a))
	root.AddCommand(newPolicyCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	if err := validateFormat(a.output); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)

	proto, err := protocol.New(cfg, protocol.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.proto = proto

	if a.requestID == "" {
		a.requestID = uuid.NewString()
	}
	cmd.SetContext(requestcontext.WithRequestID(cmd.Context(), a.requestID))
	return nil
}

func (a *app) close() {
	if a.proto == nil {
		return
	}
	if err := a.proto.Close(); err != nil && a.logger != nil {
		a.logger.Warn("failed to close protocol", "error", err)
	}
	a.proto = nil
}
