package apiclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults.
const (
	DefaultBaseURL    = "/api"
	DefaultOrigin     = "http://localhost"
	DefaultTimeout    = 15 * time.Second
	DefaultAuthHeader = "Authorization"
	DefaultAuthScheme = "Bearer"
)

// Config contains configuration for the API client.
type Config struct {
	// BaseURL is prefixed to every request path. A relative value such as
	// "/api" is resolved against Origin.
	BaseURL string

	// Origin is the scheme and host used when BaseURL is relative.
	Origin string

	// Timeout bounds each request from dispatch to the last body byte.
	Timeout time.Duration

	// AuthHeader carries the session token. When left empty it defaults to
	// "Authorization" with the "Bearer" scheme.
	AuthHeader string

	// AuthScheme prefixes the token in AuthHeader. An empty scheme with a
	// custom header sends the raw token.
	AuthScheme string

	// TLSVerify controls TLS certificate verification
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool

	// UserAgent is sent with every request when set.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:    DefaultBaseURL,
		Origin:     DefaultOrigin,
		Timeout:    DefaultTimeout,
		AuthHeader: DefaultAuthHeader,
		AuthScheme: DefaultAuthScheme,
		TLSVerify:  &tlsVerify,
	}
}

// applyDefaults fills unset fields from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Origin == "" {
		c.Origin = defaults.Origin
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.AuthHeader == "" {
		c.AuthHeader = defaults.AuthHeader
		if c.AuthScheme == "" {
			c.AuthScheme = defaults.AuthScheme
		}
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL,
			validation.Required,
			validation.By(func(interface{}) error {
				_, err := c.ResolveBaseURL()
				return err
			}),
		),
		validation.Field(&c.Timeout,
			validation.Required,
			validation.Min(time.Duration(0)).Exclusive(),
		),
		validation.Field(&c.AuthHeader, validation.Required),
	)
}

// ResolveBaseURL returns BaseURL as an absolute URL.
func (c *Config) ResolveBaseURL() (*url.URL, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base_url: %w", err)
	}

	if !base.IsAbs() {
		origin, err := url.Parse(c.Origin)
		if err != nil {
			return nil, fmt.Errorf("invalid origin: %w", err)
		}
		if !origin.IsAbs() {
			return nil, fmt.Errorf("origin must be absolute when base_url is relative, got: %q", c.Origin)
		}
		base = origin.ResolveReference(base)
	}

	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base_url must use http or https scheme, got: %s", base.Scheme)
	}

	return base, nil
}

// NewHTTPClient creates a configured HTTP client
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
