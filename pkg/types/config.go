package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider backend.
type HTTPConfig struct {
	// Timeout bounds each outbound request (default 10s). Backends run to
	// completion or to this timeout; there are no retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with provider requests. The
	// encyclopedia rejects anonymous clients with HTTP 403.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the provider backends.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// NewsAPIKey is the credential for the news provider. Without it every
	// news call fails fast with a configuration error.
	NewsAPIKey string `json:"news_api_key,omitempty" yaml:"news_api_key,omitempty"`
}

// LogConfig selects the structured logger's level, format and destination.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format"`

	// Output is stderr, stdout, or a file path (default stderr).
	Output string `json:"output" yaml:"output"`
}

// TraceConfig controls OpenTelemetry tracing.
type TraceConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Exporter is stdout or noop.
	Exporter string `json:"exporter" yaml:"exporter"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":5000").
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AccountsConfig locates the account database. An empty DBPath disables
// the registration and login routes.
type AccountsConfig struct {
	DBPath string `json:"db" yaml:"db"`
}

// Config groups every setting of the knowmap binary.
type Config struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Log      LogConfig      `json:"log" yaml:"log"`
	Trace    TraceConfig    `json:"trace" yaml:"trace"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Accounts AccountsConfig `json:"accounts" yaml:"accounts"`
}
