package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kersley/attend/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.True(t, strings.HasSuffix(cfg.DataDir, ".attend"))
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, "https://accounts.gophercon-eu.example.com", cfg.Identity.BaseURL)
	assert.Empty(t, cfg.Identity.APIKey)
	assert.False(t, cfg.Tracing.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Paths(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/attend"}

	assert.Equal(t, "/var/lib/attend/progress.attend", cfg.SnapshotPath())
	assert.Equal(t, "/var/lib/attend/registrations.db", cfg.DatabasePath())
	assert.Equal(t, "/var/lib/attend/attend.log", cfg.LogPath())
	assert.Equal(t, "/var/lib/attend/traces/traces.jsonl", cfg.TracesPath())
}

func TestConfig_Validate(t *testing.T) {
	cfg := Defaults()
	cfg.Identity.BaseURL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity.base_url")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{
			name: "empty exporter is valid",
			cfg:  tracing.Config{},
		},
		{
			name: "file exporter",
			cfg:  tracing.Config{Enabled: true, Exporter: "file"},
		},
		{
			name: "stdout exporter",
			cfg:  tracing.Config{Exporter: "stdout"},
		},
		{
			name:    "unknown exporter",
			cfg:     tracing.Config{Exporter: "jaeger"},
			wantErr: "tracing.exporter",
		},
		{
			name:    "otlp enabled without endpoint",
			cfg:     tracing.Config{Enabled: true, Exporter: "otlp"},
			wantErr: "tracing.otlp_endpoint",
		},
		{
			name: "otlp with endpoint",
			cfg:  tracing.Config{Enabled: true, Exporter: "otlp", OTLPEndpoint: "localhost:4317"},
		},
		{
			name: "otlp disabled without endpoint",
			cfg:  tracing.Config{Enabled: false, Exporter: "otlp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfigTemplate_ParsesAsYAML(t *testing.T) {
	// The template is mostly comments; the identity section is the only
	// live mapping and must match the default base URL.
	template := DefaultConfigTemplate()
	assert.Contains(t, template, "identity:")
	assert.Contains(t, template, Defaults().Identity.BaseURL)
}
