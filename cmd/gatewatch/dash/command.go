// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package dash implements the "gatewatch dashboard" command: the
// interactive TUI wired to the gateway API and the push channel.
package dash

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/dashboard"
	"github.com/gatewatch/gatewatch/lib/dashui"
	"github.com/gatewatch/gatewatch/lib/push"
)

const dialTimeout = 15 * time.Second

// Command returns the "dashboard" command.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Summary: "Open the interactive dashboard",
		Description: `Open the full-screen dashboard for your role.

Members get command entry with live credit balance and their history;
admins get the rules, audit, realtime, and approvals tabs. The
dashboard subscribes to the gateway's push channel for live updates;
when the channel cannot be established the dashboard still works in
pull-only mode.`,
		Usage: "gatewatch dashboard",
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			logger := cli.NewCommandLogger()
			env, err := cli.NewEnv(logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
			defer cancel()

			identity, err := env.RequireSession(ctx)
			if err != nil {
				return err
			}
			client, err := env.Client()
			if err != nil {
				return err
			}

			state := dashboard.NewState()
			env.Sessions.OnLogout(state.Reset)

			// The push channel is best-effort: a failed dial degrades to
			// pull-only instead of blocking the dashboard.
			var events <-chan push.Event
			channel, err := push.Dial(ctx, push.Config{
				URL:        env.Config.ResolveWebsocketURL(),
				APIKey:     env.Sessions.APIKey(),
				AdminScope: identity.IsAdmin(),
				Logger:     logger,
			})
			if err != nil {
				logger.Warn("push channel unavailable, running pull-only", "error", err)
			} else {
				events = channel.Events()
				env.Sessions.OnLogout(channel.Close)
				defer channel.Close()
			}

			model := dashui.NewModel(dashui.Config{
				Session: env.Sessions,
				Client:  client,
				State:   state,
				Events:  events,
			})

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}
			return nil
		},
	}
}
