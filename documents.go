package meili

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/petal-labs/meili/core"
)

// Content types accepted by the document routes besides JSON.
const (
	ContentTypeNDJSON = "application/x-ndjson"
	ContentTypeCSV    = "text/csv"
)

// ErrEmptyDocumentID is returned when a document operation has no id.
var ErrEmptyDocumentID = errors.New("meili: document id must not be empty")

func primaryKeyQuery(primaryKey string) core.Query {
	if primaryKey == "" {
		return nil
	}
	return core.Query{}.Set("primaryKey", primaryKey)
}

// AddDocuments enqueues insertion or replacement of documents, any value
// that serializes to a JSON array of objects. primaryKey may be empty.
func (i *Index) AddDocuments(ctx context.Context, documents any, primaryKey string) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodPost, indexPath(i.UID, "documents"),
		core.JSONBody(documents), primaryKeyQuery(primaryKey))
}

// UpdateDocuments enqueues a partial update: fields not sent are kept.
func (i *Index) UpdateDocuments(ctx context.Context, documents any, primaryKey string) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodPut, indexPath(i.UID, "documents"),
		core.JSONBody(documents), primaryKeyQuery(primaryKey))
}

// AddDocumentsNDJSON sends newline-delimited JSON documents verbatim.
func (i *Index) AddDocumentsNDJSON(ctx context.Context, data []byte, primaryKey string) (*TaskInfo, error) {
	return i.addRaw(ctx, http.MethodPost, data, ContentTypeNDJSON, primaryKey)
}

// AddDocumentsCSV sends CSV documents verbatim. The first line is the header.
func (i *Index) AddDocumentsCSV(ctx context.Context, data []byte, primaryKey string) (*TaskInfo, error) {
	return i.addRaw(ctx, http.MethodPost, data, ContentTypeCSV, primaryKey)
}

// UpdateDocumentsNDJSON is the partial-update form of AddDocumentsNDJSON.
func (i *Index) UpdateDocumentsNDJSON(ctx context.Context, data []byte, primaryKey string) (*TaskInfo, error) {
	return i.addRaw(ctx, http.MethodPut, data, ContentTypeNDJSON, primaryKey)
}

// UpdateDocumentsCSV is the partial-update form of AddDocumentsCSV.
func (i *Index) UpdateDocumentsCSV(ctx context.Context, data []byte, primaryKey string) (*TaskInfo, error) {
	return i.addRaw(ctx, http.MethodPut, data, ContentTypeCSV, primaryKey)
}

func (i *Index) addRaw(ctx context.Context, method string, data []byte, contentType, primaryKey string) (*TaskInfo, error) {
	return i.client.task(ctx, method, indexPath(i.UID, "documents"),
		core.RawBody(data, contentType), primaryKeyQuery(primaryKey))
}

// GetDocument fetches one document into out, which must be a pointer to a
// struct (matched on json tags) or a map. fields limits the returned
// attributes.
func (i *Index) GetDocument(ctx context.Context, id string, fields []string, out any) error {
	if id == "" {
		return ErrEmptyDocumentID
	}
	query := core.Query{}.SetList("fields", fields...)
	return i.client.get(ctx, indexPath(i.UID, "documents", url.PathEscape(id)), query, out)
}

// GetDocuments returns a page of documents. q may be nil.
func (i *Index) GetDocuments(ctx context.Context, q *DocumentsQuery) (*DocumentsResults, error) {
	query, err := queryOf(q)
	if err != nil {
		return nil, err
	}
	var res DocumentsResults
	if err := i.client.get(ctx, indexPath(i.UID, "documents"), query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteDocument enqueues deletion of one document.
func (i *Index) DeleteDocument(ctx context.Context, id string) (*TaskInfo, error) {
	if id == "" {
		return nil, ErrEmptyDocumentID
	}
	return i.client.task(ctx, http.MethodDelete,
		indexPath(i.UID, "documents", url.PathEscape(id)), core.NoBody(), nil)
}

// DeleteDocuments enqueues deletion of the given ids.
func (i *Index) DeleteDocuments(ctx context.Context, ids []string) (*TaskInfo, error) {
	if ids == nil {
		ids = []string{}
	}
	return i.client.task(ctx, http.MethodPost,
		indexPath(i.UID, "documents", "delete-batch"), core.JSONBody(ids), nil)
}

// DeleteAllDocuments enqueues deletion of every document in the index.
func (i *Index) DeleteAllDocuments(ctx context.Context) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodDelete, indexPath(i.UID, "documents"), core.NoBody(), nil)
}
