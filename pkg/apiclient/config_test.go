package apiclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/api", cfg.BaseURL)
	assert.Equal(t, "http://localhost", cfg.Origin)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "Authorization", cfg.AuthHeader)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	require.NotNil(t, cfg.TLSVerify)
	assert.True(t, *cfg.TLSVerify)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"relative base with origin", func(c *Config) {}, ""},
		{"absolute base", func(c *Config) { c.BaseURL = "https://plans.example.com/api"; c.Origin = "" }, ""},
		{"missing base", func(c *Config) { c.BaseURL = "" }, "BaseURL"},
		{"relative base without origin", func(c *Config) { c.Origin = "" }, "origin must be absolute"},
		{"unsupported scheme", func(c *Config) { c.BaseURL = "ftp://files.example.com" }, "http or https"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "Timeout"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "Timeout"},
		{"missing auth header", func(c *Config) { c.AuthHeader = "" }, "AuthHeader"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		base, origin, want string
	}{
		{"/api", "http://localhost", "http://localhost/api"},
		{"api", "http://localhost:8080", "http://localhost:8080/api"},
		{"/api", "https://plans.example.com/app/", "https://plans.example.com/api"},
		{"https://plans.example.com/v1", "", "https://plans.example.com/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.base, Origin: tt.origin}
			u, err := cfg.ResolveBaseURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{AuthHeader: "X-Token"}
	cfg.applyDefaults()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, "X-Token", cfg.AuthHeader)
	assert.Empty(t, cfg.AuthScheme)

	cfg = &Config{}
	cfg.applyDefaults()
	assert.Equal(t, DefaultAuthHeader, cfg.AuthHeader)
	assert.Equal(t, DefaultAuthScheme, cfg.AuthScheme)
}

func TestNewHTTPClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 3 * time.Second

	client := cfg.NewHTTPClient()
	assert.Equal(t, 3*time.Second, client.Timeout)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&Config{BaseURL: "/api", Origin: "localhost"}, Dependencies{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API client config")
}
