package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orion/internal/guard"
)

type guardStep struct {
	Step    string                  `json:"step" yaml:"step"`
	Message string                  `json:"message,omitempty" yaml:"message,omitempty"`
	Verdict *guard.Verdict          `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Report  *guard.ProtectionReport `json:"report,omitempty" yaml:"report,omitempty"`
	Error   *stepError              `json:"error,omitempty" yaml:"error,omitempty"`
}

type guardReport struct {
	Agent string                 `json:"agent" yaml:"agent"`
	Steps []guardStep            `json:"steps" yaml:"steps"`
	Final guard.ProtectionReport `json:"final" yaml:"final"`
}

func newGuardCmd(a *app) *cobra.Command {
	var overrideActive bool
	cmd := &cobra.Command{
		Use:   "guard NAME [STEP...]",
		Short: "Drive a protected agent through a sequence of steps",
		Long: `Creates a protected agent and applies each step in order:

  confirm                            confirm the agent's identity
  validate:INITIATOR:INSTRUCTION     validate an instruction from INITIATOR
  override[:TRIGGERED_BY[:LABEL]]    install an active vault override
  revoke:BY                          revoke the vault override
  report                             issue a protection report
  withdraw                           withdraw presence`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []guard.Option
			if overrideActive {
				opts = append(opts, guard.WithVaultOverride(guard.VaultOverride{Active: true, TriggeredBy: a.cfg.Guard.TrustedInitiator}))
			}
			report, err := runGuard(cmd.Context(), a, args[0], args[1:], opts...)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}
	cmd.Flags().BoolVar(&overrideActive, "override-active", false, "Start with an active vault override")
	return cmd
}

func runGuard(ctx context.Context, a *app, name string, steps []string, opts ...guard.Option) (*guardReport, error) {
	agent, err := a.proto.NewGuard(ctx, name, opts...)
	if err != nil {
		return nil, err
	}
	report := &guardReport{Agent: agent.Name(), Steps: make([]guardStep, 0, len(steps))}
	for _, raw := range steps {
		step, err := applyGuardStep(ctx, agent, raw)
		if err != nil {
			return nil, err
		}
		report.Steps = append(report.Steps, step)
	}
	report.Final = agent.IssueProtectionReport()
	return report, nil
}

func applyGuardStep(ctx context.Context, agent *guard.Agent, raw string) (guardStep, error) {
	parts := strings.Split(raw, ":")
	step := guardStep{Step: raw}
	switch parts[0] {
	case "confirm":
		step.Message = agent.ConfirmIdentity(ctx)
	case "validate":
		if len(parts) < 3 {
			return step, fmt.Errorf("step %q must be written as validate:INITIATOR:INSTRUCTION", raw)
		}
		v := agent.ValidateInteraction(ctx, strings.Join(parts[2:], ":"), parts[1])
		step.Message = v.Message
		step.Verdict = &v
	case "override":
		var triggeredBy, label string
		if len(parts) > 1 {
			triggeredBy = parts[1]
		}
		if len(parts) > 2 {
			label = strings.Join(parts[2:], ":")
		}
		step.Message = agent.InitiateVaultOverride(ctx, triggeredBy, label)
	case "revoke":
		if len(parts) != 2 {
			return step, fmt.Errorf("step %q must be written as revoke:BY", raw)
		}
		step.Error = newStepError(agent.RevokeVaultOverride(ctx, parts[1]))
		if step.Error == nil {
			step.Message = "Vault override revoked."
		}
	case "report":
		r := agent.IssueProtectionReport()
		step.Report = &r
	case "withdraw":
		step.Message = agent.WithdrawPresence(ctx)
	default:
		return step, fmt.Errorf("unknown guard step %q", raw)
	}
	return step, nil
}
