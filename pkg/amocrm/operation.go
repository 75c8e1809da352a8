package amocrm

import (
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
)

// Built-in operation names.
const (
	OpAccountInfo = "account_info"
	OpList        = "list"
	OpAdd         = "add"
	OpUpdate      = "update"
)

// DefaultTimestampField is the field update operations stamp with the
// current unix time.
const DefaultTimestampField = "last_modified"

// OperationDescriptor declares how one abstract operation maps onto the API.
type OperationDescriptor struct {
	// Path is the suffix appended after the entity segment, e.g. "list".
	Path string

	// Method is http.MethodGet or http.MethodPost. Empty means GET.
	Method string

	// Name overrides the entity segment of the path and envelope.
	Name string

	// Container is the nesting below request/<entity> the payload is placed
	// at. A container requires POST.
	Container []string

	// Result selects what is extracted from the response envelope.
	Result ResultSpec

	// ResultUnscoped makes the result path start at "response" instead of
	// "response/<entity>".
	ResultUnscoped bool

	// TimestampField, when set, is filled with the current unix time unless
	// the payload already has it.
	TimestampField string
}

// HTTPMethod returns the descriptor's method with the GET default applied.
func (d OperationDescriptor) HTTPMethod() string {
	if d.Method == "" {
		return http.MethodGet
	}
	return d.Method
}

// EntityName resolves the segment used for the path and the envelope.
func (d OperationDescriptor) EntityName(entity string) string {
	if d.Name != "" {
		return d.Name
	}
	return entity
}

// Validate checks the descriptor invariants.
func (d OperationDescriptor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Path, validation.Required),
		validation.Field(&d.Method,
			validation.In(http.MethodGet, http.MethodPost),
			validation.When(len(d.Container) > 0,
				validation.Required.Error("must be POST when a container is set"),
				validation.In(http.MethodPost).Error("must be POST when a container is set"),
			),
		),
	)
}

// Registry maps operation names to descriptors. It is read-only once built.
type Registry struct {
	ops map[string]OperationDescriptor
}

// NewRegistry validates ops and builds a registry from them.
func NewRegistry(ops map[string]OperationDescriptor) (*Registry, error) {
	var result *multierror.Error
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Registry{ops: make(map[string]OperationDescriptor, len(ops))}
	for _, name := range names {
		op := ops[name]
		if err := op.Validate(); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("operation %q: %w", name, err))
			continue
		}
		op.Container = append([]string(nil), op.Container...)
		r.ops[name] = op
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on an invalid descriptor.
func MustRegistry(ops map[string]OperationDescriptor) *Registry {
	r, err := NewRegistry(ops)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultOperations returns the built-in descriptors.
func DefaultOperations() map[string]OperationDescriptor {
	return map[string]OperationDescriptor{
		OpAccountInfo: {
			Path:           "current",
			Name:           "accounts",
			Result:         ResultPath(Field("account")),
			ResultUnscoped: true,
		},
		OpList: {
			Path:   "list",
			Result: ResultFlag(),
		},
		OpAdd: {
			Path:      "set",
			Method:    http.MethodPost,
			Container: []string{"add"},
			Result:    ResultPath(Field("add"), Index(0), Field("id")),
		},
		OpUpdate: {
			Path:           "set",
			Method:         http.MethodPost,
			Container:      []string{"update"},
			Result:         ResultPath(Field("update"), Index(0), Field("id")),
			TimestampField: DefaultTimestampField,
		},
	}
}

var defaultRegistry = MustRegistry(DefaultOperations())

// DefaultRegistry returns the registry of built-in operations.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (OperationDescriptor, bool) {
	op, ok := r.ops[name]
	if ok {
		op.Container = append([]string(nil), op.Container...)
	}
	return op, ok
}

// Names returns the registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a new registry holding r's operations plus op under name.
// r itself is not modified.
func (r *Registry) With(name string, op OperationDescriptor) (*Registry, error) {
	ops := make(map[string]OperationDescriptor, len(r.ops)+1)
	for k, v := range r.ops {
		ops[k] = v
	}
	ops[name] = op
	return NewRegistry(ops)
}
