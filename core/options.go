package core

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Doer is the transport boundary. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the immutable configuration of an Executor.
type Config struct {
	// Host is the server base URL, e.g. http://localhost:7700 (required).
	Host string `validate:"required,url"`

	// APIKey is sent as a bearer token when set.
	APIKey Secret

	// HTTPClient performs the round trip. Defaults to http.DefaultClient.
	HTTPClient Doer `validate:"-"`

	// Headers contains optional extra headers to include in every request.
	Headers http.Header

	// ClientAgents are prepended to the User-Agent, joined with ';'.
	ClientAgents []string `validate:"dive,required"`

	ClientInfo ClientInfo

	Serializer Serializer    `validate:"-"`
	Telemetry  TelemetryHook `validate:"-"`

	// Timeout bounds each call when the caller's context has no deadline.
	Timeout time.Duration `validate:"gte=0"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	if c.HTTPClient == nil || c.Serializer == nil || c.Telemetry == nil {
		return fmt.Errorf("invalid client config: http client, serializer and telemetry hook are required")
	}
	return nil
}

// UserAgent returns the client identification header value.
func (c *Config) UserAgent() string {
	qualified := c.ClientInfo.Qualified()
	if len(c.ClientAgents) == 0 {
		return qualified
	}
	return strings.Join(c.ClientAgents, ";") + ";" + qualified
}

// buildHeaders constructs the headers shared by every request.
func (c *Config) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", c.UserAgent())
	if !c.APIKey.IsEmpty() {
		headers.Set("Authorization", "Bearer "+c.APIKey.Expose())
	}

	for key, values := range c.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Option configures an Executor.
type Option func(*Config)

// WithAPIKey sets the credential sent as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = NewSecret(key)
	}
}

// WithHTTPClient sets the transport.
func WithHTTPClient(client Doer) Option {
	return func(c *Config) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Add(key, value)
	}
}

// WithClientAgents prepends integration names to the User-Agent,
// e.g. "Meilisearch Symfony (v0.10.0)".
func WithClientAgents(agents ...string) Option {
	return func(c *Config) {
		c.ClientAgents = append(c.ClientAgents, agents...)
	}
}

// WithClientInfo overrides the library identification.
func WithClientInfo(info ClientInfo) Option {
	return func(c *Config) {
		c.ClientInfo = info
	}
}

// WithSerializer replaces the JSON serializer.
func WithSerializer(s Serializer) Option {
	return func(c *Config) {
		if s != nil {
			c.Serializer = s
		}
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h TelemetryHook) Option {
	return func(c *Config) {
		if h != nil {
			c.Telemetry = h
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}
