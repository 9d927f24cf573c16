// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit implements the "gatewatch audit" command.
package audit

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
)

const requestTimeout = 30 * time.Second

// Command returns the "audit" command for listing the gateway's audit
// trail, newest first.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "audit",
		Summary: "List the audit trail",
		Usage:   "gatewatch audit",
		Examples: []cli.Example{
			{
				Description: "Show recent administrative activity",
				Command:     "gatewatch audit",
			},
		},
		Run: func(args []string) error {
			env, err := cli.NewEnv(cli.NewCommandLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()

			if _, err := env.RequireSession(ctx); err != nil {
				return err
			}
			client, err := env.Client()
			if err != nil {
				return err
			}

			entries, err := client.ListAuditLogs(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("no audit entries")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "TIME\tACTION\tUSER\tDETAILS")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					entry.Timestamp, entry.Action, entry.UserName, entry.Details)
			}
			return writer.Flush()
		},
	}
}
