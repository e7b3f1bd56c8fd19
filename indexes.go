package meili

import (
	"context"
	"errors"
	"net/http"

	"github.com/petal-labs/meili/core"
)

// ErrEmptyIndexUID is returned when an index operation has no uid.
var ErrEmptyIndexUID = errors.New("meili: index uid must not be empty")

// IndexesService manages indexes.
type IndexesService service

// List returns a page of indexes. q may be nil.
func (s *IndexesService) List(ctx context.Context, q *PageQuery) (*IndexesResults, error) {
	query, err := queryOf(q)
	if err != nil {
		return nil, err
	}
	var res IndexesResults
	if err := s.client.get(ctx, "/indexes", query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Get returns the index uid.
func (s *IndexesService) Get(ctx context.Context, uid string) (*IndexInfo, error) {
	return s.client.Index(uid).FetchInfo(ctx)
}

// Create enqueues creation of an index.
func (s *IndexesService) Create(ctx context.Context, cfg IndexConfig) (*TaskInfo, error) {
	if cfg.UID == "" {
		return nil, ErrEmptyIndexUID
	}
	return s.client.task(ctx, http.MethodPost, "/indexes", core.JSONBody(cfg), nil)
}

// Update enqueues a primary key change.
func (s *IndexesService) Update(ctx context.Context, uid, primaryKey string) (*TaskInfo, error) {
	if uid == "" {
		return nil, ErrEmptyIndexUID
	}
	body := map[string]string{"primaryKey": primaryKey}
	return s.client.task(ctx, http.MethodPatch, indexPath(uid), core.JSONBody(body), nil)
}

// Delete enqueues deletion of the index uid.
func (s *IndexesService) Delete(ctx context.Context, uid string) (*TaskInfo, error) {
	if uid == "" {
		return nil, ErrEmptyIndexUID
	}
	return s.client.task(ctx, http.MethodDelete, indexPath(uid), core.NoBody(), nil)
}

// Index is a handle on one index: documents, search and settings.
type Index struct {
	UID    string
	client *Client
}

// FetchInfo returns the index metadata.
func (i *Index) FetchInfo(ctx context.Context) (*IndexInfo, error) {
	if i.UID == "" {
		return nil, ErrEmptyIndexUID
	}
	var info IndexInfo
	if err := i.client.get(ctx, indexPath(i.UID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Stats returns statistics for this index.
func (i *Index) Stats(ctx context.Context) (*IndexStats, error) {
	var st IndexStats
	if err := i.client.get(ctx, indexPath(i.UID, "stats"), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// queryOf encodes a query struct pointer; nil pointers yield no parameters.
func queryOf[T any](q *T) (core.Query, error) {
	if q == nil {
		return nil, nil
	}
	return core.QueryFromStruct(q)
}
