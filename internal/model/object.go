package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// object is a decoded JSON object whose known keys are taken out one by one;
// whatever is left is kept verbatim as the entity's extra fields.
type object map[string]json.RawMessage

// parseObject decodes b as a JSON object. Any other shape yields an empty object.
func parseObject(b []byte) object {
	var o object
	if json.Unmarshal(b, &o) != nil || o == nil {
		return object{}
	}
	return o
}

// takeInt removes key and returns its integer value. Numbers and numeric
// strings are accepted. A value of another shape stays in the object.
func (o object) takeInt(key string) int64 {
	raw, ok := o[key]
	if !ok {
		return 0
	}
	n, ok := lenientInt(raw)
	if ok {
		delete(o, key)
	}
	return n
}

// takeString removes key and returns its string value. Numbers are accepted
// as their literal text. A value of another shape stays in the object.
func (o object) takeString(key string) string {
	raw, ok := o[key]
	if !ok {
		return ""
	}
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		delete(o, key)
		return ""
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return ""
		}
		delete(o, key)
		return s
	}
	if _, ok := lenientInt(raw); ok {
		delete(o, key)
		return string(raw)
	}
	return ""
}

// take removes key and decodes it into v. On a decode error the key stays.
func (o object) take(key string, v any) {
	raw, ok := o[key]
	if !ok {
		return
	}
	if json.Unmarshal(raw, v) == nil {
		delete(o, key)
	}
}

func (o object) rest() map[string]json.RawMessage {
	if len(o) == 0 {
		return nil
	}
	return map[string]json.RawMessage(o)
}

// lenientInt reads a JSON number, a numeric string or null. Floats are
// truncated.
func lenientInt(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if bytes.Equal(raw, []byte("null")) {
		return 0, true
	}
	s := string(raw)
	if raw[0] == '"' {
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// fields builds an entity's JSON object on top of its extra fields.
type fields map[string]any

func newFields(extra map[string]json.RawMessage) fields {
	f := make(fields, len(extra)+6)
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// put sets a field that is always present. A zero value does not hide an
// extra field of the same name.
func (f fields) put(key string, v any, zero bool) {
	if _, ok := f[key]; zero && ok {
		return
	}
	f[key] = v
}

// opt sets a field that is omitted when zero.
func (f fields) opt(key string, v any, zero bool) {
	if zero {
		return
	}
	f[key] = v
}
