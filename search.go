package meili

import (
	"context"
	"net/http"

	"github.com/petal-labs/meili/core"
)

// SearchRequest holds search parameters. Zero fields are not sent, so the
// server defaults apply.
type SearchRequest struct {
	// IndexUID is only used by MultiSearch.
	IndexUID string `json:"indexUid,omitempty"`

	Query                 string   `json:"q,omitempty"`
	Offset                int64    `json:"offset,omitempty"`
	Limit                 int64    `json:"limit,omitempty"`
	Page                  int64    `json:"page,omitempty"`
	HitsPerPage           int64    `json:"hitsPerPage,omitempty"`
	Filter                any      `json:"filter,omitempty"`
	Sort                  []string `json:"sort,omitempty"`
	Facets                []string `json:"facets,omitempty"`
	AttributesToRetrieve  []string `json:"attributesToRetrieve,omitempty"`
	AttributesToHighlight []string `json:"attributesToHighlight,omitempty"`
	AttributesToCrop      []string `json:"attributesToCrop,omitempty"`
	CropLength            int64    `json:"cropLength,omitempty"`
	HighlightPreTag       string   `json:"highlightPreTag,omitempty"`
	HighlightPostTag      string   `json:"highlightPostTag,omitempty"`
	ShowMatchesPosition   bool     `json:"showMatchesPosition,omitempty"`
	MatchingStrategy      string   `json:"matchingStrategy,omitempty"`
}

// SearchResponse is the result of one search.
type SearchResponse struct {
	IndexUID           string           `json:"indexUid"`
	Hits               []map[string]any `json:"hits"`
	Query              string           `json:"query"`
	ProcessingTimeMs   int64            `json:"processingTimeMs"`
	EstimatedTotalHits int64            `json:"estimatedTotalHits"`
	Offset             int64            `json:"offset"`
	Limit              int64            `json:"limit"`
	TotalHits          int64            `json:"totalHits"`
	TotalPages         int64            `json:"totalPages"`
	HitsPerPage        int64            `json:"hitsPerPage"`
	Page               int64            `json:"page"`
	FacetDistribution  map[string]any   `json:"facetDistribution"`
}

// MultiSearchResponse holds one response per query, in request order.
type MultiSearchResponse struct {
	Results []SearchResponse `json:"results"`
}

// Search runs a query against the index. req may be nil for a placeholder
// search returning the first documents.
func (i *Index) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		req = &SearchRequest{}
	}
	body := *req
	body.IndexUID = ""

	var res SearchResponse
	if err := i.client.call(ctx, http.MethodPost, indexPath(i.UID, "search"),
		core.JSONBody(body), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MultiSearch runs several queries in one round trip. Each request must name
// its IndexUID.
func (c *Client) MultiSearch(ctx context.Context, queries ...SearchRequest) (*MultiSearchResponse, error) {
	for _, q := range queries {
		if q.IndexUID == "" {
			return nil, ErrEmptyIndexUID
		}
	}
	if queries == nil {
		queries = []SearchRequest{}
	}
	body := map[string]any{"queries": queries}

	var res MultiSearchResponse
	if err := c.call(ctx, http.MethodPost, "/multi-search", core.JSONBody(body), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
