// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package rules implements the "gatewatch rules" command group: listing
// gating rules, creating them, and checking proposed patterns for
// conflicts with the existing rule set.
package rules

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
)

const requestTimeout = 30 * time.Second

// Command returns the "rules" command group. All subcommands require
// an admin session; the gateway enforces the role.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "rules",
		Summary: "Manage gating rules",
		Subcommands: []*cli.Command{
			listCommand(),
			createCommand(),
			checkCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List rules in match order",
				Command:     "gatewatch rules list",
			},
			{
				Description: "Check a pattern for conflicts before creating it",
				Command:     "gatewatch rules check 'rm .*' --action DENY",
			},
			{
				Description: "Create a rule",
				Command:     "gatewatch rules create 'git .*' --action ALLOW",
			},
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "List gating rules in match order",
		Usage:   "gatewatch rules list",
		Run: func(args []string) error {
			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			rules, err := client.ListRules(ctx)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Println("no rules configured")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tACTION\tPATTERN\tCREATED")
			for _, rule := range rules {
				fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n",
					rule.ID, rule.Action, rule.Pattern, rule.CreatedAt)
			}
			return writer.Flush()
		},
	}
}

func createCommand() *cli.Command {
	var action string
	var force bool

	return &cli.Command{
		Name:    "create",
		Summary: "Create a gating rule",
		Description: `Create a gating rule from a regex pattern and an action.

The pattern is validated with the server first, and a conflict check
runs against the existing rule set. High-severity conflicts block
creation unless --force is given; lower severities are reported but do
not block.`,
		Usage: "gatewatch rules create <pattern> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.StringVar(&action, "action", api.ActionDeny,
				"rule action: ALLOW, DENY, or REQUIRE_APPROVAL")
			flagSet.BoolVar(&force, "force", false, "create despite high-severity conflicts")
			return flagSet
		},
		Run: func(args []string) error {
			pattern, err := patternArg(args)
			if err != nil {
				return err
			}
			if err := validateAction(action); err != nil {
				return err
			}

			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			validation, err := client.ValidatePattern(ctx, pattern)
			if err != nil {
				return err
			}
			if !validation.Valid {
				fmt.Fprintf(os.Stderr, "invalid pattern: %s\n", validation.Error)
				for _, suggestion := range validation.Suggestions {
					fmt.Fprintf(os.Stderr, "  suggestion: %s\n", suggestion)
				}
				return &cli.ExitError{Code: 1}
			}

			result, err := client.CheckConflicts(ctx, pattern, action)
			if err != nil {
				return err
			}
			report := dashboard.BuildConflictReport(result)
			printConflictReport(os.Stderr, report)

			if report.Count(api.SeverityHigh) > 0 && !force {
				fmt.Fprintln(os.Stderr, "refusing to create: high-severity conflicts (use --force to override)")
				return &cli.ExitError{Code: 1}
			}

			rule, err := client.CreateRule(ctx, pattern, action)
			if err != nil {
				return err
			}
			fmt.Printf("created rule #%d: %s %s\n", rule.ID, rule.Action, rule.Pattern)
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	var action string

	return &cli.Command{
		Name:    "check",
		Summary: "Check a pattern for conflicts with existing rules",
		Description: `Run the server's overlap analysis for a proposed rule without
creating anything. Exits 1 when conflicts were found, so the check is
scriptable.`,
		Usage: "gatewatch rules check <pattern> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
			flagSet.StringVar(&action, "action", api.ActionDeny,
				"proposed action: ALLOW, DENY, or REQUIRE_APPROVAL")
			return flagSet
		},
		Run: func(args []string) error {
			pattern, err := patternArg(args)
			if err != nil {
				return err
			}
			if err := validateAction(action); err != nil {
				return err
			}

			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			result, err := client.CheckConflicts(ctx, pattern, action)
			if err != nil {
				return err
			}
			report := dashboard.BuildConflictReport(result)
			printConflictReport(os.Stdout, report)

			if report.HasConflicts {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// printConflictReport renders a conflict report in tier order: all
// HIGH, then MEDIUM, then LOW, followed by warnings and suggestions.
func printConflictReport(out *os.File, report *dashboard.ConflictReport) {
	if !report.HasConflicts {
		fmt.Fprintln(out, "no conflicts")
	}
	for _, tier := range report.Tiers {
		fmt.Fprintf(out, "%s (%d):\n", tier.Severity, len(tier.Conflicts))
		for _, conflict := range tier.Conflicts {
			fmt.Fprintf(out, "  %s\n", conflict.Description)
			fmt.Fprintf(out, "    rule #%d: %s -> %s\n",
				conflict.RuleID, conflict.ExistingPattern, conflict.ExistingAction)
			for _, example := range conflict.Examples {
				fmt.Fprintf(out, "    e.g. %s\n", example)
			}
		}
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	for _, suggestion := range report.Suggestions {
		fmt.Fprintf(out, "suggestion: %s\n", suggestion)
	}
}

func patternArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("pattern required")
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s (quote the pattern)", args[1])
	}
	return args[0], nil
}

func validateAction(action string) error {
	switch action {
	case api.ActionAllow, api.ActionDeny, api.ActionRequireApproval:
		return nil
	}
	return fmt.Errorf("invalid action %q (want %s)", action,
		strings.Join([]string{api.ActionAllow, api.ActionDeny, api.ActionRequireApproval}, ", "))
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
