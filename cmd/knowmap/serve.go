// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/knowmap/internal/accounts"
	"github.com/pdiddy/knowmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Serve exposes the sources, search, multi-source search and headlines
operations as a JSON API under /api, plus /register and /login backed by
the SQLite account store at accounts.db. Setting accounts.db to an empty
string disables the account routes. The server stops gracefully on
SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :5000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator(appConfig.Search, logger)
	if err != nil {
		return err
	}

	var acct server.Accounts
	if appConfig.Accounts.DBPath != "" {
		store, err := accounts.NewStore(appConfig.Accounts)
		if err != nil {
			return err
		}
		defer store.Close()
		acct = store
		logger.Info("account routes enabled", "db", appConfig.Accounts.DBPath)
	}

	return server.New(orch, acct, logger).Run(cmd.Context(), appConfig.Server)
}
