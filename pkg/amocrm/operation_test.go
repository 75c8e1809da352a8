package amocrm

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name      string
		op        OperationDescriptor
		wantError bool
		errorMsg  string
	}{
		{
			name: "get without container",
			op:   OperationDescriptor{Path: "list"},
		},
		{
			name: "post with container",
			op:   OperationDescriptor{Path: "set", Method: http.MethodPost, Container: []string{"add"}},
		},
		{
			name:      "missing path",
			op:        OperationDescriptor{Method: http.MethodGet},
			wantError: true,
			errorMsg:  "Path",
		},
		{
			name:      "container requires post",
			op:        OperationDescriptor{Path: "set", Method: http.MethodGet, Container: []string{"add"}},
			wantError: true,
			errorMsg:  "must be POST",
		},
		{
			name:      "container with default method",
			op:        OperationDescriptor{Path: "set", Container: []string{"add"}},
			wantError: true,
			errorMsg:  "must be POST",
		},
		{
			name:      "unsupported method",
			op:        OperationDescriptor{Path: "set", Method: http.MethodDelete},
			wantError: true,
			errorMsg:  "Method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{OpAccountInfo, OpAdd, OpList, OpUpdate}, r.Names())

	update, ok := r.Lookup(OpUpdate)
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, update.HTTPMethod())
	assert.Equal(t, DefaultTimestampField, update.TimestampField)

	add, ok := r.Lookup(OpAdd)
	require.True(t, ok)
	assert.Empty(t, add.TimestampField)

	list, ok := r.Lookup(OpList)
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, list.HTTPMethod())

	_, ok = r.Lookup("delete")
	assert.False(t, ok)
}

func TestRegistry_LookupReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	add, _ := r.Lookup(OpAdd)
	add.Container[0] = "changed"

	again, _ := r.Lookup(OpAdd)
	assert.Equal(t, []string{"add"}, again.Container)
}

func TestRegistry_With(t *testing.T) {
	base := DefaultRegistry()

	extended, err := base.With("delete", OperationDescriptor{
		Path:      "set",
		Method:    http.MethodPost,
		Container: []string{"delete"},
	})
	require.NoError(t, err)

	_, ok := extended.Lookup("delete")
	assert.True(t, ok)
	_, ok = base.Lookup("delete")
	assert.False(t, ok, "base registry must not change")

	_, err = base.With("broken", OperationDescriptor{Path: "set", Container: []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operation "broken"`)
}

func TestNewRegistry_CollectsAllErrors(t *testing.T) {
	_, err := NewRegistry(map[string]OperationDescriptor{
		"a": {},
		"b": {Path: "x", Container: []string{"y"}},
		"c": {Path: "ok"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `operation "a"`)
	assert.Contains(t, err.Error(), `operation "b"`)
	assert.NotContains(t, err.Error(), `operation "c"`)

	assert.Panics(t, func() {
		MustRegistry(map[string]OperationDescriptor{"a": {}})
	})
}
