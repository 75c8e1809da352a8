package amocrm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		entity string
		op     OperationDescriptor
		want   string
	}{
		{"list", "", "leads", OperationDescriptor{Path: "list"}, "/private/api/v2/json/leads/list"},
		{"trailing slash", "json", "leads/", OperationDescriptor{Path: "list"}, "/private/api/v2/json/leads/list"},
		{"leading slash", "json", "/leads", OperationDescriptor{Path: "set"}, "/private/api/v2/json/leads/set"},
		{"suffix with slash", "json", "leads", OperationDescriptor{Path: "/set"}, "/private/api/v2/json/leads/set"},
		{"override name", "json", "leads", OperationDescriptor{Path: "current", Name: "accounts"}, "/private/api/v2/json/accounts/current"},
		{"xml format", "xml", "contacts", OperationDescriptor{Path: "list"}, "/private/api/v2/xml/contacts/list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildPath(tt.format, tt.entity, tt.op))
		})
	}
}

func TestBuildPath_BuiltIns(t *testing.T) {
	r := DefaultRegistry()

	add, _ := r.Lookup(OpAdd)
	assert.Equal(t, "/private/api/v2/json/contacts/set", BuildPath(DefaultFormat, "contacts", add))

	info, _ := r.Lookup(OpAccountInfo)
	assert.Equal(t, "/private/api/v2/json/accounts/current", BuildPath(DefaultFormat, "contacts", info))
}
