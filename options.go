package meili

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/petal-labs/meili/core"
	"github.com/petal-labs/meili/tenant"
)

type config struct {
	core   []core.Option
	tenant []tenant.IssuerOption
	logger hclog.Logger
}

// Option configures a Client.
type Option func(*config)

// WithAPIKey sets the key sent as a bearer token and used for tenant tokens.
func WithAPIKey(key string) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithAPIKey(key))
	}
}

// WithHTTPClient sets the transport. *http.Client satisfies core.Doer.
func WithHTTPClient(client core.Doer) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithHTTPClient(client))
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithHeader(key, value))
	}
}

// WithClientAgents prepends integration identifiers to the User-Agent,
// e.g. "Meilisearch Symfony (v0.10.0)".
func WithClientAgents(agents ...string) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithClientAgents(agents...))
	}
}

// WithTimeout bounds each request when the context carries no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithTimeout(d))
	}
}

// WithTelemetry installs a request hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *config) {
		c.core = append(c.core, core.WithTelemetry(h))
	}
}

// WithCoreOptions passes executor options through unchanged.
func WithCoreOptions(opts ...core.Option) Option {
	return func(c *config) {
		c.core = append(c.core, opts...)
	}
}

// WithTokenOptions configures the issuer behind GenerateTenantToken.
func WithTokenOptions(opts ...tenant.IssuerOption) Option {
	return func(c *config) {
		c.tenant = append(c.tenant, opts...)
	}
}

// WithLogger sets the logger used by long-running helpers such as
// TasksService.Wait. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
