// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package approvals implements the "gatewatch approvals" command group
// for the multi-admin sign-off queue.
package approvals

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
)

const requestTimeout = 30 * time.Second

// Command returns the "approvals" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "approvals",
		Summary: "Review commands awaiting approval",
		Subcommands: []*cli.Command{
			listCommand(),
			resolveCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List the pending queue",
				Command:     "gatewatch approvals list",
			},
			{
				Description: "Approve a command",
				Command:     "gatewatch approvals resolve 42 --approve",
			},
			{
				Description: "Reject a command (reason required)",
				Command:     "gatewatch approvals resolve 42 --reject --reason 'touches prod data'",
			},
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List commands awaiting sign-off",
		Usage:   "gatewatch approvals list",
		Run: func(args []string) error {
			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			pending, err := client.ListPendingApprovals(ctx)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("no commands awaiting approval")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tRISK\tUSER\tCOMMAND\tVOTES")
			for _, approval := range pending {
				fmt.Fprintf(writer, "%d\t%s %.1f\t%s\t%s\t%d/%d\n",
					approval.ID,
					dashboard.RiskLevel(approval.AIRiskScore),
					approval.AIRiskScore,
					approval.UserName,
					approval.CommandText,
					approval.ApprovalCount,
					approval.RequiredApprovals)
			}
			return writer.Flush()
		},
	}
}

func resolveCommand() *cli.Command {
	var approve bool
	var reject bool
	var reason string

	return &cli.Command{
		Name:    "resolve",
		Summary: "Approve or reject a pending command",
		Description: `Record a vote on a pending command.

Exactly one of --approve or --reject is required. A reject must carry
--reason; the requirement is enforced before any request is sent. The
command leaves the queue only when the server confirms — resolution
conflicts (someone else voted first) surface as server errors and the
queue listing stays authoritative.`,
		Usage: "gatewatch approvals resolve <command-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
			flagSet.BoolVar(&approve, "approve", false, "approve the command")
			flagSet.BoolVar(&reject, "reject", false, "reject the command")
			flagSet.StringVar(&reason, "reason", "", "resolution reason (required for --reject)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("command ID required\n\nUsage: gatewatch approvals resolve <command-id> [flags]")
			}
			commandID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid command ID %q", args[0])
			}
			if approve == reject {
				return fmt.Errorf("exactly one of --approve or --reject is required")
			}
			if err := dashboard.ValidateResolution(approve, reason); err != nil {
				return fmt.Errorf("--reason is required with --reject")
			}

			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			if _, err := client.ResolveApproval(ctx, commandID, approve, reason); err != nil {
				return err
			}

			verb := "rejected"
			if approve {
				verb = "approved"
			}
			fmt.Printf("command %d %s\n", commandID, verb)
			return nil
		},
	}
}

func adminClient() (context.Context, context.CancelFunc, *api.Client, error) {
	env, err := cli.NewEnv(cli.NewCommandLogger())
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)

	if _, err := env.RequireSession(ctx); err != nil {
		cancel()
		return nil, nil, nil, err
	}
	client, err := env.Client()
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, cancel, client, nil
}
