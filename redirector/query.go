package redirector

import (
	"net/url"
	"strings"
)

// Query is a parsed query string with unique keys. Keys keep the order of
// their first appearance; a repeated key keeps the last value.
type Query struct {
	keys   []string
	values map[string]string
}

// ParseQuery parses a raw query string such as "t=500&c=12345". An empty
// string yields an empty Query. Malformed escapes are kept verbatim
// instead of failing.
func ParseQuery(raw string) Query {
	raw = strings.TrimPrefix(raw, "?")

	var q Query
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key = unescapeQuery(key)
		if key == "" {
			continue
		}

		q.Set(key, unescapeQuery(value))
	}

	return q
}

// QueryFromMap builds a Query from m. Key order follows the sorted order
// of url.Values encoding so that results are deterministic.
func QueryFromMap(m map[string]string) Query {
	vals := url.Values{}
	for k, v := range m {
		vals.Set(k, v)
	}

	return ParseQuery(vals.Encode())
}

func unescapeQuery(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}

	return s
}

// Set stores value under key.
func (q *Query) Set(key, value string) {
	if q.values == nil {
		q.values = make(map[string]string)
	}
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = value
}

// Get returns the value for key and whether it was present.
func (q Query) Get(key string) (string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// Has reports whether key is present, even with an empty value.
func (q Query) Has(key string) bool {
	_, ok := q.values[key]
	return ok
}

// Len returns the number of keys.
func (q Query) Len() int {
	return len(q.keys)
}

// Keys returns the keys in first-appearance order.
func (q Query) Keys() []string {
	out := make([]string, len(q.keys))
	copy(out, q.keys)

	return out
}
