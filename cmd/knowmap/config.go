// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/knowmap/internal/logging"
	"github.com/pdiddy/knowmap/internal/secrets"
	"github.com/pdiddy/knowmap/pkg/types"
)

const (
	defaultTimeout = 10 * time.Second
	repoURL        = "https://github.com/pdiddy/knowmap"
)

func defaultUserAgent() string {
	return fmt.Sprintf("knowmap/%s (%s)", version, repoURL)
}

// configureViper installs defaults and environment bindings. Every key can
// be set as KNOWMAP_<SECTION>_<KEY>; the news key is also read from the
// conventional NEWS_API_KEY variable.
func configureViper(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.exporter", "noop")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("accounts.db", "data/accounts.db")

	v.SetEnvPrefix("KNOWMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("news_api_key", "KNOWMAP_NEWS_API_KEY", "NEWS_API_KEY")
}

// loadConfig resolves the effective configuration. The news key falls back
// to the secrets store when neither a flag, the environment nor the config
// file sets it.
func loadConfig(v *viper.Viper, store secrets.Store) types.Config {
	return types.Config{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("http.timeout"),
				UserAgent: v.GetString("http.user_agent"),
			},
			NewsAPIKey: store.Get(secrets.NewsAPIKey, strings.TrimSpace(v.GetString("news_api_key"))),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Trace: types.TraceConfig{
			Enabled:  v.GetBool("trace.enabled"),
			Exporter: v.GetString("trace.exporter"),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Accounts: types.AccountsConfig{
			DBPath: v.GetString("accounts.db"),
		},
	}
}

// loadSecrets reads the secrets directory before the configured logger
// exists, so problems with individual files are reported on w.
func loadSecrets(dir string, w io.Writer) (secrets.Store, error) {
	bootstrap := logging.NewWriter(w, types.LogConfig{Level: "warn"})
	return secrets.Load(dir, bootstrap)
}
