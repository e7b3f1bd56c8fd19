package meili

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{"hits":[{"id":2,"title":"Wonder Woman"}],"query":"wonder","processingTimeMs":1,"estimatedTotalHits":1,"offset":0,"limit":20,"facetDistribution":{"genres":{"Action":1}}}`

func TestSearch(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, searchResponse)

	res, err := c.Index("movies").Search(context.Background(), &SearchRequest{
		IndexUID: "ignored",
		Query:    "wonder",
		Limit:    20,
		Filter:   "genres = Action",
		Facets:   []string{"genres"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/indexes/movies/search", rec.Path)
	assert.JSONEq(t, `{"q":"wonder","limit":20,"filter":"genres = Action","facets":["genres"]}`, rec.Body)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, "Wonder Woman", res.Hits[0]["title"])
	assert.Equal(t, int64(1), res.EstimatedTotalHits)
	assert.Equal(t, map[string]any{"Action": float64(1)}, res.FacetDistribution["genres"])
}

func TestPlaceholderSearch(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, searchResponse)
	_, err := c.Index("movies").Search(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, rec.Body)
}

func TestMultiSearch(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"results":[{"indexUid":"movies","hits":[],"query":"a"},{"indexUid":"books","hits":[{"id":1}],"query":"b"}]}`)

	res, err := c.MultiSearch(context.Background(),
		SearchRequest{IndexUID: "movies", Query: "a"},
		SearchRequest{IndexUID: "books", Query: "b", Limit: 1},
	)
	require.NoError(t, err)
	assert.Equal(t, "/multi-search", rec.Path)
	assert.JSONEq(t, `{"queries":[{"indexUid":"movies","q":"a"},{"indexUid":"books","q":"b","limit":1}]}`, rec.Body)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "books", res.Results[1].IndexUID)
	assert.Len(t, res.Results[1].Hits, 1)
}

func TestMultiSearchRequiresIndex(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, "")
	_, err := c.MultiSearch(context.Background(), SearchRequest{Query: "a"})
	assert.ErrorIs(t, err, ErrEmptyIndexUID)
}
