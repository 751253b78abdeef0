// Package config is the string-keyed property-tree boundary the processors
// are configured from. Parsing an on-disk file format into a Tree is out of
// scope for the core; this package only defines the Tree contract itself
// and a JSON-backed implementation good enough for the CLI entrypoint.
package config

import "encoding/json"

// Tree is a minimal string-keyed property tree, in the spirit of a
// boost::property_tree::ptree.
type Tree struct {
	data map[string]interface{}
}

// Empty returns a Tree with no keys set.
func Empty() *Tree {
	return &Tree{data: map[string]interface{}{}}
}

// FromJSON parses a JSON object into a Tree. Nested objects become child
// Trees retrievable with GetChild.
func FromJSON(raw []byte) (*Tree, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &Tree{data: data}, nil
}

// Set stores a raw value under key, for programmatic construction in tests.
func (t *Tree) Set(key string, value interface{}) {
	t.data[key] = value
}

// GetString returns the string at key, or def if absent or not a string.
func (t *Tree) GetString(key, def string) string {
	if v, ok := t.data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetStringOptional returns the string at key and whether it was present.
func (t *Tree) GetStringOptional(key string) (string, bool) {
	if v, ok := t.data[key]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// GetFloat returns the float64 at key, or def if absent or not numeric.
func (t *Tree) GetFloat(key string, def float64) float64 {
	if v, ok := t.data[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

// GetUint returns the uint64 at key, or def if absent or not numeric.
func (t *Tree) GetUint(key string, def uint64) uint64 {
	if v, ok := t.data[key]; ok {
		switch n := v.(type) {
		case float64:
			return uint64(n)
		case int:
			return uint64(n)
		}
	}
	return def
}

// GetStringSlice returns the list of strings at key, or nil if absent.
func (t *Tree) GetStringSlice(key string) []string {
	v, ok := t.data[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetChild returns the sub-tree at key, and whether it was present.
func (t *Tree) GetChild(key string) (*Tree, bool) {
	v, ok := t.data[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	return &Tree{data: m}, true
}

// Entries exposes the tree's keys and raw values, used by datasource
// factories that hand configuration through opaquely.
func (t *Tree) Entries() map[string]interface{} {
	return t.data
}
