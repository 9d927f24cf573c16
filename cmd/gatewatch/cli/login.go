// Copyright 2026 The Gatewatch Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// loginTimeout bounds the verification round-trip during login and
// whoami. Interactive commands should fail fast rather than hang on an
// unreachable gateway.
const loginTimeout = 30 * time.Second

// LoginCommand returns the "login" command for authenticating against
// the gateway. The API key is verified with the server before being
// persisted to the credential file (mode 0600). Subsequent commands
// load the credential transparently, like SSH keys.
func LoginCommand() *Command {
	var keyFile string

	return &Command{
		Name:    "login",
		Summary: "Authenticate against the gateway",
		Description: `Log in to the gateway and save the credential locally.

After login, commands like "gatewatch submit" and "gatewatch dashboard"
use the saved credential transparently — no flags needed.

The API key can be provided via --api-key-file (a path to a file
containing the key) or prompted interactively if --api-key-file is "-"
or omitted. The key never appears on the command line or in shell
history.`,
		Usage: "gatewatch login [flags]",
		Examples: []Example{
			{
				Description: "Log in interactively (prompts for the API key)",
				Command:     "gatewatch login",
			},
			{
				Description: "Log in with the key from a file",
				Command:     "gatewatch login --api-key-file ~/.gatewatch-key",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&keyFile, "api-key-file", "", "path to a file containing the API key, or - to prompt")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			apiKey, err := readAPIKey(keyFile)
			if err != nil {
				return err
			}

			env, err := NewEnv(NewCommandLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
			defer cancel()

			identity, err := env.Sessions.Authenticate(ctx, apiKey)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s (%s), %d credits\n",
				identity.Name, identity.Role, identity.Credits)
			return nil
		},
	}
}

// LogoutCommand returns the "logout" command. Clearing an absent
// credential is not an error.
func LogoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Clear the saved credential",
		Usage:   "gatewatch logout",
		Run: func(args []string) error {
			env, err := NewEnv(NewCommandLogger())
			if err != nil {
				return err
			}
			env.Sessions.Logout()
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}

// WhoAmICommand returns the "whoami" command for displaying the active
// session. The credential is re-verified with the gateway, so the
// displayed credit balance is current.
func WhoAmICommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the active session",
		Usage:   "gatewatch whoami",
		Run: func(args []string) error {
			env, err := NewEnv(NewCommandLogger())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
			defer cancel()

			identity, err := env.RequireSession(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", identity.Name, identity.Role)
			fmt.Printf("credits: %d\n", identity.Credits)
			fmt.Printf("gateway: %s\n", env.Config.ServerURL)
			return nil
		},
	}
}

// readAPIKey reads the API key for the login command. If keyFile is
// empty or "-", prompts interactively on the terminal with echo
// disabled. Otherwise reads from the file path, stripping trailing
// newlines (common with echo/printf pipelines).
func readAPIKey(keyFile string) (string, error) {
	if keyFile != "" && keyFile != "-" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", keyFile, err)
		}
		key := strings.TrimRight(string(data), "\r\n")
		if key == "" {
			return "", fmt.Errorf("file %s is empty (after stripping trailing newlines)", keyFile)
		}
		return key, nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", fmt.Errorf("no terminal available for interactive prompt (use --api-key-file)")
	}

	fmt.Fprint(os.Stderr, "API key: ")
	keyBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	if len(keyBytes) == 0 {
		return "", fmt.Errorf("API key is empty")
	}
	return string(keyBytes), nil
}
