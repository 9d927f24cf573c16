// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package history implements the "gatewatch history" command group:
// listing the caller's command history and exporting it to CSV.
package history

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/api"
	"github.com/gatewatch/gatewatch/lib/dashboard"
)

const fetchTimeout = 30 * time.Second

// Command returns the "history" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Summary: "View and export your command history",
		Subcommands: []*cli.Command{
			listCommand(),
			exportCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List your recent commands",
				Command:     "gatewatch history list",
			},
			{
				Description: "List only commands mentioning docker",
				Command:     "gatewatch history list --filter docker",
			},
			{
				Description: "Export the full history to a date-stamped CSV",
				Command:     "gatewatch history export",
			},
		},
	}
}

func listCommand() *cli.Command {
	var filter string

	return &cli.Command{
		Name:    "list",
		Summary: "List your commands, newest first",
		Usage:   "gatewatch history list [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&filter, "filter", "", "case-insensitive substring match on the command text")
			return flagSet
		},
		Run: func(args []string) error {
			records, err := fetchHistory()
			if err != nil {
				return err
			}

			store := &dashboard.HistoryStore{}
			store.SetRecords(records)
			matched := store.Filter(filter)

			if len(matched) == 0 {
				if filter != "" {
					fmt.Printf("no commands match %q\n", filter)
				} else {
					fmt.Println("no commands yet")
				}
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "TIME\tSTATUS\tCOMMAND\tCREDITS")
			for _, record := range matched {
				credits := ""
				if record.CreditsDeducted > 0 {
					credits = fmt.Sprintf("-%d", record.CreditsDeducted)
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					record.CreatedAt, record.Status, record.CommandText, credits)
			}
			return writer.Flush()
		},
	}
}

func exportCommand() *cli.Command {
	var outPath string

	return &cli.Command{
		Name:    "export",
		Summary: "Export the full history to CSV",
		Description: `Write the complete command history to a CSV file.

The export always covers the full history, never a filtered subset.
The default filename is date-stamped (command-history-YYYY-MM-DD.csv)
in the working directory; --out overrides it. Use "-" to write to
stdout.`,
		Usage: "gatewatch history export [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
			flagSet.StringVar(&outPath, "out", "", "output path (default: command-history-YYYY-MM-DD.csv)")
			return flagSet
		},
		Run: func(args []string) error {
			records, err := fetchHistory()
			if err != nil {
				return err
			}

			store := &dashboard.HistoryStore{}
			store.SetRecords(records)

			if outPath == "-" {
				return store.ExportCSV(os.Stdout)
			}

			filename := outPath
			if filename == "" {
				filename = dashboard.ExportFilename(time.Now())
			}
			file, err := os.Create(filename)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := store.ExportCSV(file); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "exported %d commands to %s\n", store.Len(), filename)
			return nil
		},
	}
}

func fetchHistory() ([]api.CommandRecord, error) {
	env, err := cli.NewEnv(cli.NewCommandLogger())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if _, err := env.RequireSession(ctx); err != nil {
		return nil, err
	}
	client, err := env.Client()
	if err != nil {
		return nil, err
	}
	return client.ListCommands(ctx)
}
