// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the knowmap CLI.
//
// knowmap searches an encyclopedia, a scholarly preprint index and a news
// service, alone or concurrently, and can serve the same searches over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/knowmap/internal/logging"
	"github.com/pdiddy/knowmap/internal/tracing"
	"github.com/pdiddy/knowmap/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state prepared by the root command before any subcommand runs.
var (
	appConfig types.Config
	logger    = logging.Discard()
	teardown  []func() error
)

// rootCmd is the base command for the knowmap CLI.
var rootCmd = &cobra.Command{
	Use:   "knowmap",
	Short: "Search Wikipedia, arXiv and NewsAPI from one place",
	Long: `knowmap queries heterogeneous content providers through a single
interface: an encyclopedia (Wikipedia), a scholarly preprint index (arXiv)
and a news service (NewsAPI). Searches run against one source or fan out
to several concurrently; every source answers with the same result
envelope whether it succeeded or not.

The serve subcommand exposes the same operations as a JSON HTTP API.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return shutdown() },
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./knowmap.yaml or ~/.config/knowmap/knowmap.yaml)")
	pf.String("env-file", ".env", "dotenv file loaded into the environment when present")
	pf.String("secrets-dir", ".secrets/", "directory of secret files (news-api-key)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("news-api-key", "", "NewsAPI key (default: $NEWS_API_KEY or .secrets/news-api-key)")

	viper.BindPFlag("log.level", pf.Lookup("log-level"))
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("news_api_key", pf.Lookup("news-api-key"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("knowmap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "knowmap"))
		}
	}
	configureViper(viper.GetViper())
}

// setup loads the environment, secrets and configuration, then builds the
// logger and tracer shared by every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.GetViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	secretsDir, _ := cmd.Flags().GetString("secrets-dir")
	store, err := loadSecrets(secretsDir, os.Stderr)
	if err != nil {
		return err
	}

	appConfig = loadConfig(v, store)

	l, closeLog, err := logging.New(appConfig.Log)
	if err != nil {
		return err
	}
	logger = l
	teardown = append(teardown, closeLog)

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	if names := store.Names(); len(names) > 0 {
		slices.Sort(names)
		logger.Debug("loaded secrets", "names", names)
	}

	shutdownTracing, err := tracing.Setup(cmd.Context(), appConfig.Trace)
	if err != nil {
		return err
	}
	teardown = append(teardown, func() error { return shutdownTracing(context.Background()) })
	return nil
}

// shutdown releases resources acquired by setup in reverse order.
func shutdown() error {
	var errs []error
	for i := len(teardown) - 1; i >= 0; i-- {
		if err := teardown[i](); err != nil {
			errs = append(errs, err)
		}
	}
	teardown = nil
	return errors.Join(errs...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// PersistentPostRunE is skipped when RunE fails.
		shutdown()
		os.Exit(1)
	}
}

