// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/knowmap/internal/accounts"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account in the local account store",
	Long: `Register adds a user to the SQLite account store used by the serve
command. The password is read from the first line of standard input so it
does not appear in the process list or shell history.`,
	Example: `  echo 's3cret' | knowmap register ada@example.com`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.Accounts.DBPath == "" {
			return fmt.Errorf("accounts.db is not configured")
		}
		store, err := accounts.NewStore(appConfig.Accounts)
		if err != nil {
			return err
		}
		defer store.Close()

		return executeRegister(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), store, args[0])
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func executeRegister(ctx context.Context, in io.Reader, out io.Writer, store *accounts.Store, username string) error {
	password, err := readPassword(in)
	if err != nil {
		return err
	}
	u, err := store.Register(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Registered %s (id %s)\n", u.Username, u.ID)
	return nil
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
