package main

import (
	"github.com/spf13/cobra"

	"orion/internal/policy"
	id "orion/pkg/domain"
)

type policyReport struct {
	Policies         policy.Snapshot     `json:"policies" yaml:"policies"`
	AgentProtections []policy.Protection `json:"agent_protections,omitempty" yaml:"agent_protections,omitempty"`
}

func newPolicyCmd(a *app) *cobra.Command {
	var agent string
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the protection and communication policy tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := policyReport{Policies: a.proto.Policies()}
			if agent != "" {
				agentID, err := id.ParseEntityID(agent)
				if err != nil {
					return err
				}
				report.AgentProtections = a.proto.AgentProtections(agentID)
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "Also list the special protections attached for this agent")
	return cmd
}
