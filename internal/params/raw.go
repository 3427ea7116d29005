package params

import (
	"encoding/json"
	"strconv"
)

// RawParams is the duck-typed shape the trading backend returns for an
// instance's parameters. It may be nil, partially shaped or carry values of
// the wrong type; every accessor tolerates all of that. RawParams is the
// single ingestion boundary: everything past Materialize/Reconcile operates
// on the strict InstanceParameters type.
type RawParams map[string]interface{}

// ParseRaw decodes a JSON document into RawParams. A null, empty or
// non-object document yields a nil map, which every accessor accepts.
func ParseRaw(data []byte) (RawParams, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw RawParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// child returns the nested object under key, or nil when absent or not an
// object.
func (r RawParams) child(key string) RawParams {
	if r == nil {
		return nil
	}
	switch v := r[key].(type) {
	case map[string]interface{}:
		return RawParams(v)
	case RawParams:
		return v
	default:
		return nil
	}
}

// float returns the numeric value under key. JSON numbers decode as float64,
// but backend revisions have also sent integers and numeric strings.
func (r RawParams) float(key string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// integer returns the value under key truncated to int.
func (r RawParams) integer(key string) (int, bool) {
	f, ok := r.float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// boolean returns the value under key only when it is an explicit boolean.
// Truthy strings or numbers do not count; autoTrade safety depends on that.
func (r RawParams) boolean(key string) (bool, bool) {
	if r == nil {
		return false, false
	}
	b, ok := r[key].(bool)
	return b, ok
}

// str returns the string value under key.
func (r RawParams) str(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r[key].(string)
	return s, ok
}

// has reports whether key is present at all, regardless of type.
func (r RawParams) has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r[key]
	return ok
}
