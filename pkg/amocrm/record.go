package amocrm

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Record is one flat CRM object: field name to value.
type Record map[string]any

// Clone returns a shallow copy of r. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether field is set to a non-empty value.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && !isEmpty(v)
}

// isEmpty mirrors the falsy values an upsert treats as "no natural key".
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case json.Number:
		return t == "" || t == "0"
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case Record:
		return len(t) == 0
	}
	return false
}

// asRecord converts decoded JSON objects into records.
func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	}
	return nil, false
}

// Decode copies rec into out, a pointer to a struct tagged with `json`
// field names. Loosely typed API values ("12" for 12) are accepted.
func Decode(rec Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       jsonNumberHook,
	})
	if err != nil {
		return fmt.Errorf("error creating decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(rec)); err != nil {
		return fmt.Errorf("error decoding record: %w", err)
	}
	return nil
}

func jsonNumberHook(from, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok || to.Kind() == reflect.String {
		return data, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if f, err := n.Float64(); err == nil {
		return f, nil
	}
	return n.String(), nil
}

// IDOf converts an id extracted from a response into an int64. ok is false
// when v is not an id, e.g. when the response envelope was malformed and the
// raw response came back instead.
func IDOf(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	case float64:
		return int64(t), t == float64(int64(t))
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		return i, err == nil
	}
	return 0, false
}
