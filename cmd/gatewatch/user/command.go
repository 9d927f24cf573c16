// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package user implements the "gatewatch user" command group for
// provisioning accounts and adjusting credit balances.
package user

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/gatewatch/gatewatch/cmd/gatewatch/cli"
	"github.com/gatewatch/gatewatch/lib/api"
)

const requestTimeout = 30 * time.Second

// Command returns the "user" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Summary: "Provision users and manage credits",
		Subcommands: []*cli.Command{
			createCommand(),
			creditsCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Provision a member with the default balance",
				Command:     "gatewatch user create alice",
			},
			{
				Description: "Provision an admin",
				Command:     "gatewatch user create ops-lead --role admin",
			},
			{
				Description: "Set a user's credit balance",
				Command:     "gatewatch user credits 7 250",
			},
		},
	}
}

func createCommand() *cli.Command {
	var role string
	var credits int

	return &cli.Command{
		Name:    "create",
		Summary: "Provision a new user",
		Description: `Create a user account on the gateway.

The user's API key is printed exactly once, at creation. It cannot be
retrieved again — hand it to the user over a secure channel.`,
		Usage: "gatewatch user create <name> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.StringVar(&role, "role", api.RoleMember, "user role: member or admin")
			flagSet.IntVar(&credits, "credits", 100, "starting credit balance")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("user name required\n\nUsage: gatewatch user create <name> [flags]")
			}
			name := args[0]
			if role != api.RoleMember && role != api.RoleAdmin {
				return fmt.Errorf("invalid role %q (want member or admin)", role)
			}

			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			created, err := client.CreateUser(ctx, name, role, credits)
			if err != nil {
				return err
			}

			fmt.Printf("created user #%d %s (%s), %d credits\n",
				created.ID, created.Name, created.Role, created.Credits)
			fmt.Printf("API key (shown once): %s\n", created.APIKey)
			return nil
		},
	}
}

func creditsCommand() *cli.Command {
	return &cli.Command{
		Name:    "credits",
		Summary: "Set a user's credit balance",
		Description: `Set a user's credit balance to an absolute value.

The balance is not an increment: the given value replaces whatever the
user currently holds. The user sees the change immediately via a push
update when they are connected.`,
		Usage: "gatewatch user credits <user-id> <credits>",
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("user ID and credit value required\n\nUsage: gatewatch user credits <user-id> <credits>")
			}
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}
			credits, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid credit value %q", args[1])
			}
			if credits < 0 {
				return fmt.Errorf("credit balance cannot be negative")
			}

			ctx, cancel, client, err := adminClient()
			if err != nil {
				return err
			}
			defer cancel()

			if err := client.UpdateUserCredits(ctx, userID, credits); err != nil {
				return err
			}
			fmt.Printf("user %d credits set to %d\n", userID, credits)
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
