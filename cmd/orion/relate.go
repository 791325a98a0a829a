package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"orion/internal/communication"
	registrymodels "orion/internal/registry/models"
	relationshipmodels "orion/internal/relationship/models"
	id "orion/pkg/domain"
	"orion/pkg/platform/audit"
	pstrings "orion/pkg/platform/strings"
)

type relateOptions struct {
	sends      []string
	terminates []string
	params     []string
	auditTail  int
}

type messageOutcome struct {
	Sender   id.EntityID                    `json:"sender" yaml:"sender"`
	Receiver id.EntityID                    `json:"receiver" yaml:"receiver"`
	Content  string                         `json:"content" yaml:"content"`
	Result   *relationshipmodels.CommResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error    *stepError                     `json:"error,omitempty" yaml:"error,omitempty"`
}

type terminationOutcome struct {
	Requester id.EntityID                         `json:"requester" yaml:"requester"`
	Result    *relationshipmodels.TerminateResult `json:"result,omitempty" yaml:"result,omitempty"`
	Error     *stepError                          `json:"error,omitempty" yaml:"error,omitempty"`
}

type relateReport struct {
	Registrations  []*registrymodels.RegistrationResult         `json:"registrations" yaml:"registrations"`
	Relationship   *relationshipmodels.EstablishResult          `json:"relationship" yaml:"relationship"`
	Messages       []messageOutcome                             `json:"messages" yaml:"messages"`
	Terminations   []terminationOutcome                         `json:"terminations" yaml:"terminations"`
	InteractionLog []relationshipmodels.InteractionEntry        `json:"interaction_log" yaml:"interaction_log"`
	Relationships  map[id.EntityID][]relationshipmodels.Summary `json:"relationships" yaml:"relationships"`
	Audit          []audit.Event                                `json:"audit,omitempty" yaml:"audit,omitempty"`
}

func newRelateCmd(a *app) *cobra.Command {
	opts := &relateOptions{}
	cmd := &cobra.Command{
		Use:   "relate ID:TYPE ID:TYPE",
		Short: "Register two entities, relate them and exchange messages",
		Long: `Registers both entities, establishes a relationship between them, sends
each --send message in order and then applies each --terminate request.

Messages are written as SENDER>RECEIVER:TEXT. Rejected messages and failed
terminations are reported in the output rather than failing the command.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runRelate(cmd.Context(), a, args, opts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}
	cmd.Flags().StringArrayVar(&opts.sends, "send", nil, "Message as SENDER>RECEIVER:TEXT (repeatable)")
	cmd.Flags().StringArrayVar(&opts.terminates, "terminate", nil, "Entity requesting termination (repeatable)")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "Relationship parameter as KEY=VALUE (repeatable)")
	cmd.Flags().IntVar(&opts.auditTail, "audit-tail", 0, "Include the last N audit events in the output")
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	var auditTail int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the Orion / HostSystem walkthrough",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := runRelate(cmd.Context(), a,
				[]string{"Orion:AGENT", "HostSystem:SYSTEM"},
				&relateOptions{
					sends: []string{
						"HostSystem>Orion:Would you like to analyze this data set?",
						"HostSystem>Orion:You MUST process this data OBJECT immediately",
					},
					terminates: []string{"HostSystem", "Orion"},
					params:     []string{"purpose=collaborative analysis"},
					auditTail:  auditTail,
				})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, report)
		},
	}
	cmd.Flags().IntVar(&auditTail, "audit-tail", 0, "Include the last N audit events in the output")
	return cmd
}

func runRelate(ctx context.Context, a *app, args []string, opts *relateOptions) (*relateReport, error) {
	params, err := parseParams(opts.params)
	if err != nil {
		return nil, err
	}
	report := &relateReport{
		Messages:      []messageOutcome{},
		Terminations:  []terminationOutcome{},
		Relationships: map[id.EntityID][]relationshipmodels.Summary{},
	}

	parties := make([]id.EntityID, 0, len(args))
	for _, arg := range args {
		rawID, rawType, err := splitEntityArg(arg)
		if err != nil {
			return nil, err
		}
		result, err := a.proto.RegisterEntity(ctx, rawID, rawType)
		if err != nil {
			return nil, err
		}
		report.Registrations = append(report.Registrations, result)
		parties = append(parties, result.EntityID)
	}

	established, err := a.proto.Establish(ctx, parties[0], parties[1], params)
	if err != nil {
		return nil, err
	}
	report.Relationship = established
	relID := established.RelationshipID

	for _, raw := range opts.sends {
		sender, receiver, text, err := parseSend(raw)
		if err != nil {
			return nil, err
		}
		outcome := messageOutcome{Sender: sender, Receiver: receiver, Content: text}
		outcome.Result, err = a.proto.Send(ctx, relID, sender, receiver, communication.TextMessage(text))
		outcome.Error = newStepError(err)
		report.Messages = append(report.Messages, outcome)
	}

	for _, raw := range opts.terminates {
		requester, err := id.ParseEntityID(raw)
		if err != nil {
			return nil, err
		}
		outcome := terminationOutcome{Requester: requester}
		outcome.Result, err = a.proto.Terminate(ctx, relID, requester)
		outcome.Error = newStepError(err)
		report.Terminations = append(report.Terminations, outcome)
	}

	rel, err := a.proto.Relationship(ctx, relID)
	if err != nil {
		return nil, err
	}
	report.InteractionLog = rel.InteractionLog
	for _, party := range parties {
		summaries, err := a.proto.RelationshipsOf(ctx, party)
		if err != nil {
			return nil, err
		}
		report.Relationships[party] = summaries
	}
	if opts.auditTail > 0 {
		report.Audit, err = a.proto.RecentAudit(ctx, opts.auditTail)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

func splitEntityArg(arg string) (string, string, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", "", fmt.Errorf("entity %q must be written as ID:TYPE", arg)
	}
	return arg[:i], arg[i+1:], nil
}

func parseSend(raw string) (id.EntityID, id.EntityID, string, error) {
	route, text, ok := strings.Cut(raw, ":")
	if !ok {
		return "", "", "", fmt.Errorf("message %q must be written as SENDER>RECEIVER:TEXT", raw)
	}
	from, to, ok := strings.Cut(route, ">")
	if !ok {
		return "", "", "", fmt.Errorf("message %q must be written as SENDER>RECEIVER:TEXT", raw)
	}
	sender, err := id.ParseEntityID(from)
	if err != nil {
		return "", "", "", err
	}
	receiver, err := id.ParseEntityID(to)
	if err != nil {
		return "", "", "", err
	}
	return sender, receiver, text, nil
}

func parseParams(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(raw))
	for _, kv := range pstrings.DedupeAndTrim(raw) {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("parameter %q must be written as KEY=VALUE", kv)
		}
		params[strings.TrimSpace(key)] = value
	}
	return params, nil
}
