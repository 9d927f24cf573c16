// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete gatewatch CLI command tree.
package commands

import (
	approvalscmd "github.com/gatewatch/gatewatch/cmd/gatewatch/approvals"
	auditcmd "github.com/gatewatch/gatewatch/cmd/gatewatch/audit"
	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	dashcmd "github.com/gatewatch/gatewatch/cmd/gatewatch/dash"
	historycmd "github.com/gatewatch/gatewatch/cmd/gatewatch/history"
	rulescmd "github.com/gatewatch/gatewatch/cmd/gatewatch/rules"
	submitcmd "github.com/gatewatch/gatewatch/cmd/gatewatch/submit"
	usercmd "github.com/gatewatch/gatewatch/cmd/gatewatch/user"
)

// Root builds and returns the complete gatewatch CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "gatewatch",
		Description: `Gatewatch: terminal dashboard for the command gateway.

Submit commands through the gate, watch live execution activity, and
administer gating rules, approvals, and user credits.`,
		Subcommands: []*cli.Command{
			cli.LoginCommand(),
			cli.LogoutCommand(),
			cli.WhoAmICommand(),
			dashcmd.Command(),
			submitcmd.Command(),
			historycmd.Command(),
			rulescmd.Command(),
			approvalscmd.Command(),
			auditcmd.Command(),
			usercmd.Command(),
		},
		Examples: []cli.Example{
			{
				Description: "Authenticate (saves the credential locally)",
				Command:     "gatewatch login",
			},
			{
				Description: "Open the dashboard for your role",
				Command:     "gatewatch dashboard",
			},
			{
				Description: "Submit a command from the shell",
				Command:     "gatewatch submit 'docker ps'",
			},
			{
				Description: "Check a proposed rule for conflicts",
				Command:     "gatewatch rules check 'rm .*' --action DENY",
			},
			{
				Description: "Approve a queued command",
				Command:     "gatewatch approvals resolve 42 --approve",
			},
		},
	}
}
