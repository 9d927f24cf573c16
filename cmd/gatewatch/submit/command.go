// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package submit implements the "gatewatch submit" command.
package submit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/api"
)

const submitTimeout = 60 * time.Second

// Command returns the "submit" command for sending a command through
// the gate from the shell, without opening the dashboard.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "submit",
		Summary: "Submit a command through the gate",
		Description: `Send a command through the gateway's rule and risk pipeline.

The gateway's verdict is printed along with the remaining credit
balance when the server reports one. A rejected command exits with
code 1 so the result is scriptable.`,
		Usage: "gatewatch submit <command...>",
		Examples: []cli.Example{
			{
				Description: "Submit a command",
				Command:     "gatewatch submit 'docker ps'",
			},
			{
				Description: "Words are joined, quoting is optional",
				Command:     "gatewatch submit systemctl status nginx",
			},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("command required\n\nUsage: gatewatch submit <command...>")
			}
			command := strings.Join(args, " ")

			env, err := cli.NewEnv(cli.NewCommandLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()

			if _, err := env.RequireSession(ctx); err != nil {
				return err
			}
			client, err := env.Client()
			if err != nil {
				return err
			}

			result, err := client.SubmitCommand(ctx, command)
			if err != nil {
				return err
			}

			fmt.Printf("status: %s\n", result.Status)
			if result.RulePattern != "" {
				fmt.Printf("matched rule: %s\n", result.RulePattern)
			}
			if result.AIAnalysis != "" {
				fmt.Printf("analysis: %s (risk %.1f)\n", result.AIAnalysis, result.AIRiskScore)
			}
			if result.CreditsRemaining != nil {
				fmt.Printf("credits remaining: %d\n", *result.CreditsRemaining)
			}

			if result.Status == api.StatusRejected {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
