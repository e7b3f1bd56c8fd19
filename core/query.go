package core

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/schema"
)

var queryEncoder = schema.NewEncoder()

func init() {
	queryEncoder.SetAliasTag("query")
}

// Param is a single query parameter. Multiple values are comma-joined on the
// wire, which is how the server reads multi-value fields such as `fields` or
// `statuses`.
type Param struct {
	Key    string
	Values []string
}

// Query is an ordered list of query parameters. Encoding preserves order.
type Query []Param

// Set appends a single-valued parameter and returns the extended query.
func (q Query) Set(key, value string) Query {
	return append(q, Param{Key: key, Values: []string{value}})
}

// SetList appends a multi-valued parameter. Empty lists are skipped.
func (q Query) SetList(key string, values ...string) Query {
	if len(values) == 0 {
		return q
	}
	return append(q, Param{Key: key, Values: values})
}

// Get returns the comma-joined value for key and whether it was present.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return strings.Join(p.Values, ","), true
		}
	}
	return "", false
}

// Encode renders the query as an escaped query string without the leading '?'.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.Join(p.Values, ",")))
	}
	return b.String()
}

// QueryFromStruct converts a parameter struct into a Query using `query`
// struct tags (`query:"limit,omitempty"`). Keys are sorted for a stable
// wire form.
func QueryFromStruct(src any) (Query, error) {
	if src == nil {
		return nil, nil
	}
	values := make(map[string][]string)
	if err := queryEncoder.Encode(src, values); err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make(Query, 0, len(keys))
	for _, k := range keys {
		q = q.SetList(k, values[k]...)
	}
	return q, nil
}
