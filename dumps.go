package meili

import (
	"context"
	"net/http"

	"github.com/petal-labs/meili/core"
)

// DumpsService triggers database dumps.
type DumpsService service

// Create enqueues a dump of the whole instance.
func (s *DumpsService) Create(ctx context.Context) (*TaskInfo, error) {
	return s.client.task(ctx, http.MethodPost, "/dumps", core.NoBody(), nil)
}
