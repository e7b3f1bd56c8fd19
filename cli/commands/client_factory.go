package commands

import (
	"github.com/hashicorp/go-hclog"

	"github.com/petal-labs/meili"
	"github.com/petal-labs/meili/cli/config"
)

func defaultClientFactory(r config.Resolved, logger hclog.Logger) (*meili.Client, error) {
	opts := []meili.Option{meili.WithLogger(logger)}
	if r.APIKey != "" {
		opts = append(opts, meili.WithAPIKey(r.APIKey))
	}
	if len(r.ClientAgents) > 0 {
		opts = append(opts, meili.WithClientAgents(r.ClientAgents...))
	}
	if r.Timeout > 0 {
		opts = append(opts, meili.WithTimeout(r.Timeout))
	}
	return meili.New(r.Host, opts...)
}
