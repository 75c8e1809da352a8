package amocrm

import (
	"fmt"
	"strings"
)

// DefaultFormat is the serialization tag embedded in every API path.
const DefaultFormat = "json"

const basePath = "/private/api/v2/%s%s%s"

// BuildPath derives the request path of op for the given entity, e.g.
// "/private/api/v2/json/leads/list".
func BuildPath(format, entityName string, op OperationDescriptor) string {
	if format == "" {
		format = DefaultFormat
	}

	name := op.EntityName(entityName)
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if !strings.HasSuffix(name, "/") && !strings.HasPrefix(op.Path, "/") {
		name += "/"
	}

	return fmt.Sprintf(basePath, format, name, op.Path)
}
