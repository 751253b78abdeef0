package tile

import (
	"encoding/json"
	"fmt"
)

// AttrType tags the variant held by an AttrValue: a proper closed sum
// instead of a pair of parallel typed slices.
type AttrType int8

const (
	AttrNull AttrType = iota
	AttrInt
	AttrFloat
	AttrBool
	AttrString
)

// AttrValue is a feature attribute value: null, integer, floating, boolean,
// or string. The zero value is AttrNull.
type AttrValue struct {
	Type AttrType
	I    int64
	F    float64
	B    bool
	S    string
}

// Null is the deletion sentinel value: the downstream encoder skips
// attributes whose value is Null when serializing to the wire format.
var Null = AttrValue{Type: AttrNull}

func IntValue(v int64) AttrValue    { return AttrValue{Type: AttrInt, I: v} }
func FloatValue(v float64) AttrValue { return AttrValue{Type: AttrFloat, F: v} }
func BoolValue(v bool) AttrValue    { return AttrValue{Type: AttrBool, B: v} }
func StringValue(v string) AttrValue { return AttrValue{Type: AttrString, S: v} }

// Equal reports whether two attribute values carry the same type and
// payload.
func (v AttrValue) Equal(o AttrValue) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case AttrNull:
		return true
	case AttrInt:
		return v.I == o.I
	case AttrFloat:
		return v.F == o.F
	case AttrBool:
		return v.B == o.B
	case AttrString:
		return v.S == o.S
	default:
		return false
	}
}

// Less gives AttrValue a total order: first by Type, then by payload. It
// exists so the candidate index can order endpoints by match-tag value,
// mirroring how a mapnik::value would order.
func (v AttrValue) Less(o AttrValue) bool {
	if v.Type != o.Type {
		return v.Type < o.Type
	}
	switch v.Type {
	case AttrNull:
		return false
	case AttrInt:
		return v.I < o.I
	case AttrFloat:
		return v.F < o.F
	case AttrBool:
		return !v.B && o.B
	case AttrString:
		return v.S < o.S
	default:
		return false
	}
}

func (v AttrValue) String() string {
	switch v.Type {
	case AttrNull:
		return "<null>"
	case AttrInt:
		return fmt.Sprintf("%d", v.I)
	case AttrFloat:
		return fmt.Sprintf("%g", v.F)
	case AttrBool:
		return fmt.Sprintf("%t", v.B)
	case AttrString:
		return v.S
	default:
		return "<unknown>"
	}
}

// AttrEntry is one key/value pair as returned by Attributes.Entries, in
// insertion order.
type AttrEntry struct {
	Key   string
	Value AttrValue
}

// Attributes is a feature's key/value attribute map. It preserves insertion
// order for Entries, which keeps encoder output byte-stable across runs.
type Attributes struct {
	keys   []string
	values map[string]AttrValue
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]AttrValue)}
}

// Has reports whether key is present (with any value, including Null).
func (a *Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Get returns key's value and whether it was present.
func (a *Attributes) Get(key string) (AttrValue, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Put replaces the value of an existing key. It is a no-op if the key is not
// present, matching the boundary contract's "in-place replacement" wording;
// callers that mean to add a new key must use PutNew.
func (a *Attributes) Put(key string, val AttrValue) {
	if _, ok := a.values[key]; !ok {
		return
	}
	a.values[key] = val
}

// PutNew inserts key with val, appending it to iteration order if it wasn't
// already present. If the key exists, its value is overwritten in place.
func (a *Attributes) PutNew(key string, val AttrValue) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = val
}

// SetNull marks key's value as Null, the deletion protocol attribute
// consumers use downstream to drop a key from the wire encoding. It is a
// no-op if key is absent.
func (a *Attributes) SetNull(key string) {
	if _, ok := a.values[key]; ok {
		a.values[key] = Null
	}
}

// InternStrings rewrites every key and every string value by calling intern
// on it, letting a caller holding a string-interning pool fold repeated
// attribute strings down to shared storage before the map is serialized.
func (a *Attributes) InternStrings(intern func(string) (string, error)) error {
	for i, k := range a.keys {
		ik, err := intern(k)
		if err != nil {
			return err
		}
		v := a.values[k]
		if v.Type == AttrString {
			iv, err := intern(v.S)
			if err != nil {
				return err
			}
			v.S = iv
		}
		if ik != k {
			delete(a.values, k)
			a.keys[i] = ik
			k = ik
		}
		a.values[k] = v
	}
	return nil
}

// Entries returns all key/value pairs in insertion order.
func (a *Attributes) Entries() []AttrEntry {
	out := make([]AttrEntry, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, AttrEntry{Key: k, Value: a.values[k]})
	}
	return out
}

// MarshalJSON encodes the map as an ordered array of entries, since a plain
// JSON object would lose the insertion order Entries relies on.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Entries())
}

// UnmarshalJSON restores an Attributes from the array MarshalJSON produces.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var entries []AttrEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	a.keys = nil
	a.values = make(map[string]AttrValue)
	for _, e := range entries {
		a.PutNew(e.Key, e.Value)
	}
	return nil
}
