// Package config provides configuration types and defaults for attend.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kersley/attend/internal/log"
	"github.com/kersley/attend/internal/tracing"
)

// Config holds all configuration options for attend.
type Config struct {
	// DataDir is where the snapshot file, the registration database,
	// and the debug log live. Default: ~/.attend
	DataDir string `mapstructure:"data_dir"`

	// CatalogPath points at an external question catalog. Empty means
	// the embedded default catalog.
	CatalogPath string `mapstructure:"catalog_path"`

	Identity IdentityConfig `mapstructure:"identity"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// IdentityConfig holds account-service connection settings.
type IdentityConfig struct {
	// BaseURL is the account service endpoint.
	BaseURL string `mapstructure:"base_url"`

	// APIKey is sent as a bearer token. Usually supplied via the
	// ATTEND_IDENTITY_API_KEY env var rather than the config file.
	APIKey string `mapstructure:"api_key"`
}

// DefaultDataDir returns ~/.attend, or a relative fallback if the home
// directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".attend"
	}
	return filepath.Join(home, ".attend")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataDir: DefaultDataDir(),
		Identity: IdentityConfig{
			BaseURL: "https://accounts.gophercon-eu.example.com",
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// SnapshotPath returns the path of the saved-progress file.
func (c Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "progress.attend")
}

// DatabasePath returns the path of the registration database.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "registrations.db")
}

// LogPath returns the path of the debug log file.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "attend.log")
}

// TracesPath returns the default path for file-exported traces.
func (c Config) TracesPath() string {
	return filepath.Join(c.DataDir, "traces", "traces.jsonl")
}

// Validate checks the configuration for errors. Empty values fall back
// to defaults and are valid.
func (c Config) Validate() error {
	if c.Identity.BaseURL == "" {
		return fmt.Errorf("identity.base_url must not be empty")
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tc tracing.Config) error {
	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}
	if tc.Enabled {
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Attend Configuration

# Directory for saved progress, the registration database, and logs
# (default: ~/.attend)
# data_dir: /path/to/dir

# External question catalog (default: built-in catalog)
# catalog_path: /path/to/questions.yaml

# Account service settings
identity:
  base_url: https://accounts.gophercon-eu.example.com
  # api_key is usually supplied via the ATTEND_IDENTITY_API_KEY env var
  # api_key: ""

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.attend/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
