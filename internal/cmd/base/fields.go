package base

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

// Fields collects repeated key=value flags into a record. Keys are
// normalized with NormalizeKey; values that parse as JSON (numbers, bools,
// arrays, objects) keep their type, anything else is a string.
type Fields struct {
	rec amocrm.Record
}

var _ flag.Value = (*Fields)(nil)

func (f *Fields) String() string {
	if f == nil || len(f.rec) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.rec))
	for k := range f.rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, f.rec[k])
	}
	return strings.Join(parts, ",")
}

func (f *Fields) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	key = NormalizeKey(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if f.rec == nil {
		f.rec = amocrm.Record{}
	}
	f.rec[key] = ParseValue(value)
	return nil
}

// Record returns a copy of the collected fields.
func (f *Fields) Record() amocrm.Record {
	return f.rec.Clone()
}

// NormalizeKey converts a field name to the API's snake_case:
// "responsibleUserId" and "Responsible User ID" both become
// "responsible_user_id".
func NormalizeKey(key string) string {
	return strcase.ToSnake(strings.TrimSpace(key))
}

// NormalizeRecord returns a copy of rec with every top-level key normalized.
// Nested values are left as they are.
func NormalizeRecord(rec map[string]any) amocrm.Record {
	out := make(amocrm.Record, len(rec))
	for k, v := range rec {
		out[NormalizeKey(k)] = v
	}
	return out
}

// ParseValue decodes s as JSON when possible and returns it as a string
// otherwise.
func ParseValue(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}
