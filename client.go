package meili

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/petal-labs/meili/core"
	"github.com/petal-labs/meili/tenant"
)

// Client is the entry point to a Meilisearch server. It is safe for
// concurrent use.
type Client struct {
	exec   *core.Executor
	issuer *tenant.Issuer
	logger hclog.Logger

	Indexes *IndexesService
	Tasks   *TasksService
	Keys    *KeysService
	Dumps   *DumpsService
	System  *SystemService
}

type service struct {
	client *Client
}

// New creates a Client for the server at host.
func New(host string, opts ...Option) (*Client, error) {
	cfg := config{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	exec, err := core.NewExecutor(host, cfg.core...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		exec:   exec,
		issuer: tenant.NewIssuer(exec.APIKey().Expose(), cfg.tenant...),
		logger: cfg.logger,
	}
	base := &service{client: c}
	c.Indexes = (*IndexesService)(base)
	c.Tasks = (*TasksService)(base)
	c.Keys = (*KeysService)(base)
	c.Dumps = (*DumpsService)(base)
	c.System = (*SystemService)(base)
	return c, nil
}

// Executor returns the underlying request pipeline for routes this package
// does not wrap.
func (c *Client) Executor() *core.Executor {
	return c.exec
}

// Index returns a handle on the index uid. No request is made.
func (c *Client) Index(uid string) *Index {
	return &Index{UID: uid, client: c}
}

// GenerateTenantToken signs a tenant token with the client's API key, or
// opts.APIKey when set. apiKeyUID identifies the parent key on the server.
func (c *Client) GenerateTenantToken(apiKeyUID uuid.UUID, rules any, opts tenant.Options) (string, error) {
	if apiKeyUID != uuid.Nil {
		opts.APIKeyUID = apiKeyUID
	}
	return c.issuer.Generate(rules, opts)
}

// call runs one request and decodes a non-nil result into out.
func (c *Client) call(ctx context.Context, method, path string, body core.Body, query core.Query, out any) error {
	res, err := c.exec.Request(ctx, core.RequestSpec{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		return err
	}
	if out == nil || res == nil {
		return nil
	}
	return decode(res, out)
}

func (c *Client) get(ctx context.Context, path string, query core.Query, out any) error {
	return c.call(ctx, http.MethodGet, path, core.NoBody(), query, out)
}

// task runs a write request and returns the enqueued task.
func (c *Client) task(ctx context.Context, method, path string, body core.Body, query core.Query) (*TaskInfo, error) {
	var info TaskInfo
	if err := c.call(ctx, method, path, body, query, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func indexPath(uid string, rest ...string) string {
	p := "/indexes/" + url.PathEscape(uid)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
