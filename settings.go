package meili

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/petal-labs/meili/core"
)

// Settings configure how an index ranks, filters and returns documents.
// Nil fields are left unchanged by UpdateSettings; a non-nil empty list or
// map is sent as is and clears the setting.
type Settings struct {
	DisplayedAttributes  []string            `json:"displayedAttributes,omitempty"`
	SearchableAttributes []string            `json:"searchableAttributes,omitempty"`
	FilterableAttributes []string            `json:"filterableAttributes,omitempty"`
	SortableAttributes   []string            `json:"sortableAttributes,omitempty"`
	RankingRules         []string            `json:"rankingRules,omitempty"`
	StopWords            []string            `json:"stopWords,omitempty"`
	Synonyms             map[string][]string `json:"synonyms,omitempty"`
	DistinctAttribute    *string             `json:"distinctAttribute,omitempty"`
	TypoTolerance        map[string]any      `json:"typoTolerance,omitempty"`
	Pagination           map[string]any      `json:"pagination,omitempty"`
	Faceting             map[string]any      `json:"faceting,omitempty"`
}

// MarshalJSON omits nil fields only. The omitempty tags would also drop
// empty collections.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	v := reflect.ValueOf(s)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
			if f.IsNil() {
				continue
			}
		}
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		out[name] = f.Interface()
	}
	return json.Marshal(out)
}

// GetSettings returns every setting of the index.
func (i *Index) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := i.client.get(ctx, indexPath(i.UID, "settings"), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings enqueues a partial settings update.
func (i *Index) UpdateSettings(ctx context.Context, s *Settings) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodPatch, indexPath(i.UID, "settings"), core.JSONBody(s), nil)
}

// ResetSettings enqueues a reset of every setting to its default.
func (i *Index) ResetSettings(ctx context.Context) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodDelete, indexPath(i.UID, "settings"), core.NoBody(), nil)
}

// GetDisplayedAttributes returns the attributes included in results.
func (i *Index) GetDisplayedAttributes(ctx context.Context) ([]string, error) {
	return i.getAttributes(ctx, "displayed-attributes")
}

// UpdateDisplayedAttributes enqueues a new displayed attributes list.
func (i *Index) UpdateDisplayedAttributes(ctx context.Context, attrs []string) (*TaskInfo, error) {
	return i.updateAttributes(ctx, "displayed-attributes", attrs)
}

// ResetDisplayedAttributes enqueues a reset to ["*"].
func (i *Index) ResetDisplayedAttributes(ctx context.Context) (*TaskInfo, error) {
	return i.resetSetting(ctx, "displayed-attributes")
}

// GetSearchableAttributes returns the attributes searched, by priority.
func (i *Index) GetSearchableAttributes(ctx context.Context) ([]string, error) {
	return i.getAttributes(ctx, "searchable-attributes")
}

// UpdateSearchableAttributes enqueues a new searchable attributes list.
func (i *Index) UpdateSearchableAttributes(ctx context.Context, attrs []string) (*TaskInfo, error) {
	return i.updateAttributes(ctx, "searchable-attributes", attrs)
}

// ResetSearchableAttributes enqueues a reset to ["*"].
func (i *Index) ResetSearchableAttributes(ctx context.Context) (*TaskInfo, error) {
	return i.resetSetting(ctx, "searchable-attributes")
}

func (i *Index) getAttributes(ctx context.Context, name string) ([]string, error) {
	var attrs []string
	if err := i.client.get(ctx, indexPath(i.UID, "settings", name), nil, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (i *Index) updateAttributes(ctx context.Context, name string, attrs []string) (*TaskInfo, error) {
	if attrs == nil {
		attrs = []string{}
	}
	return i.client.task(ctx, http.MethodPut, indexPath(i.UID, "settings", name), core.JSONBody(attrs), nil)
}

func (i *Index) resetSetting(ctx context.Context, name string) (*TaskInfo, error) {
	return i.client.task(ctx, http.MethodDelete, indexPath(i.UID, "settings", name), core.NoBody(), nil)
}
