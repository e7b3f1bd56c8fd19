package meili

import "context"

// SystemService wraps the instance-level routes.
type SystemService service

// Health returns the server health report.
func (s *SystemService) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := s.client.get(ctx, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// IsHealthy reports whether the server answers /health with "available".
// Transport and API failures count as unhealthy; a canceled context is
// returned as an error.
func (s *SystemService) IsHealthy(ctx context.Context) (bool, error) {
	h, err := s.Health(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, err
		}
		return false, nil
	}
	return h.Status == "available", nil
}

// Version returns the server build information.
func (s *SystemService) Version(ctx context.Context) (*Version, error) {
	var v Version
	if err := s.client.get(ctx, "/version", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Stats returns database size and per-index statistics.
func (s *SystemService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.client.get(ctx, "/stats", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
