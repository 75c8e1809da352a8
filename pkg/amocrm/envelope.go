package amocrm

import (
	"strconv"
)

const (
	requestKey  = "request"
	responseKey = "response"
)

// Key is one step of a result path: either a field name or a positional
// index.
type Key struct {
	field   string
	index   int
	isIndex bool
}

// Field returns a key that selects a member of a JSON object.
func Field(name string) Key {
	return Key{field: name}
}

// Index returns a key that selects an element of a JSON array.
func Index(i int) Key {
	return Key{index: i, isIndex: true}
}

// IsIndex reports whether the key selects an array element.
func (k Key) IsIndex() bool {
	return k.isIndex
}

func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.field
}

// step applies the key to v. ok is false on a missing key, a type mismatch or
// an out-of-range index.
func (k Key) step(v any) (any, bool) {
	if k.isIndex {
		arr, ok := v.([]any)
		if !ok || k.index < 0 || k.index >= len(arr) {
			return nil, false
		}
		return arr[k.index], true
	}

	switch m := v.(type) {
	case map[string]any:
		next, ok := m[k.field]
		return next, ok
	case Record:
		next, ok := m[k.field]
		return next, ok
	}
	return nil, false
}

type resultMode int

const (
	resultNone resultMode = iota
	resultFlag
	resultPath
)

// ResultSpec tells the codec how to extract the interesting part of a
// response envelope. The zero value returns the response unchanged.
type ResultSpec struct {
	mode resultMode
	path []Key
}

// ResultFlag extracts response[<entity>] from the envelope.
func ResultFlag() ResultSpec {
	return ResultSpec{mode: resultFlag}
}

// ResultPath extracts the value found by following keys below
// response[<entity>].
func ResultPath(keys ...Key) ResultSpec {
	path := make([]Key, len(keys))
	copy(path, keys)
	return ResultSpec{mode: resultPath, path: path}
}

// IsZero reports whether the spec leaves responses untouched.
func (s ResultSpec) IsZero() bool {
	return s.mode == resultNone
}

// Keys returns a copy of the configured path, or nil for non-path specs.
func (s ResultSpec) Keys() []Key {
	if s.mode != resultPath {
		return nil
	}
	keys := make([]Key, len(s.path))
	copy(keys, s.path)
	return keys
}

// Wrap embeds payload in a fresh envelope below
// request[entityName][container...]. An empty container returns payload as
// is.
func Wrap(entityName string, container []string, payload any) any {
	if len(container) == 0 {
		return payload
	}

	path := make([]string, 0, len(container)+2)
	path = append(path, requestKey, entityName)
	path = append(path, container...)

	return nest(path, payload)
}

// nest builds one map per key, innermost first, so no level is shared with
// any other envelope.
func nest(path []string, payload any) any {
	v := payload
	for i := len(path) - 1; i >= 0; i-- {
		v = map[string]any{path[i]: v}
	}
	return v
}

// Unwrap extracts the value described by spec from response. Traversal that
// runs into a missing key, a wrong type or an out-of-range index returns
// response itself.
func Unwrap(entityName string, spec ResultSpec, response any) any {
	v, _ := unwrap(entityName, spec, false, response)
	return v
}

// unwrap reports whether the result was extracted. On false it returns
// response unchanged.
func unwrap(entityName string, spec ResultSpec, unscoped bool, response any) (any, bool) {
	var path []Key
	switch spec.mode {
	case resultNone:
		return response, true
	case resultFlag:
		path = []Key{Field(responseKey), Field(entityName)}
	case resultPath:
		path = make([]Key, 0, len(spec.path)+2)
		path = append(path, Field(responseKey))
		if !unscoped {
			path = append(path, Field(entityName))
		}
		path = append(path, spec.path...)
	}

	v, ok := traverse(response, path)
	if !ok {
		return response, false
	}
	return v, true
}

func traverse(v any, path []Key) (any, bool) {
	for _, k := range path {
		next, ok := k.step(v)
		if !ok {
			return nil, false
		}
		v = next
	}
	return v, true
}
