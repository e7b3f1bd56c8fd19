package meili

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/meili/core"
)

// ErrEmptyKey is returned when a key operation has neither key nor uid.
var ErrEmptyKey = errors.New("meili: key or key uid must not be empty")

// KeyRequest is the payload for key creation.
type KeyRequest struct {
	// UID is optional; the server generates one when it is uuid.Nil.
	UID         uuid.UUID
	Name        string
	Description string
	Actions     []string
	Indexes     []string
	ExpiresAt   *time.Time
}

type keyPayload struct {
	UID         string     `json:"uid,omitempty"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Actions     []string   `json:"actions"`
	Indexes     []string   `json:"indexes"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (r KeyRequest) payload() keyPayload {
	p := keyPayload{
		Name:        r.Name,
		Description: r.Description,
		Actions:     r.Actions,
		Indexes:     r.Indexes,
		ExpiresAt:   r.ExpiresAt,
	}
	if r.UID != uuid.Nil {
		p.UID = r.UID.String()
	}
	if p.Actions == nil {
		p.Actions = []string{}
	}
	if p.Indexes == nil {
		p.Indexes = []string{}
	}
	if p.ExpiresAt != nil {
		utc := p.ExpiresAt.UTC()
		p.ExpiresAt = &utc
	}
	return p
}

// KeyUpdate changes the mutable fields of a key.
type KeyUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// KeysService manages API keys. It requires the master key.
type KeysService service

// List returns a page of keys. q may be nil.
func (s *KeysService) List(ctx context.Context, q *PageQuery) (*KeysResults, error) {
	query, err := queryOf(q)
	if err != nil {
		return nil, err
	}
	var res KeysResults
	if err := s.client.get(ctx, "/keys", query, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Get returns a key by its value or uid.
func (s *KeysService) Get(ctx context.Context, keyOrUID string) (*Key, error) {
	if keyOrUID == "" {
		return nil, ErrEmptyKey
	}
	var k Key
	if err := s.client.get(ctx, "/keys/"+url.PathEscape(keyOrUID), nil, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// Create creates a key. Unlike index writes this is synchronous.
func (s *KeysService) Create(ctx context.Context, req KeyRequest) (*Key, error) {
	var k Key
	if err := s.client.call(ctx, http.MethodPost, "/keys", core.JSONBody(req.payload()), nil, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// Update changes the name or description of a key.
func (s *KeysService) Update(ctx context.Context, keyOrUID string, upd KeyUpdate) (*Key, error) {
	if keyOrUID == "" {
		return nil, ErrEmptyKey
	}
	var k Key
	if err := s.client.call(ctx, http.MethodPatch, "/keys/"+url.PathEscape(keyOrUID),
		core.JSONBody(upd), nil, &k); err != nil {
		return nil, err
	}
	return &k, nil
}

// Delete removes a key. The server answers 204.
func (s *KeysService) Delete(ctx context.Context, keyOrUID string) error {
	if keyOrUID == "" {
		return ErrEmptyKey
	}
	return s.client.call(ctx, http.MethodDelete, "/keys/"+url.PathEscape(keyOrUID), core.NoBody(), nil, nil)
}
