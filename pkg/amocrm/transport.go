package amocrm

import "context"

// Request is one call the manager asks the transport to perform.
type Request struct {
	// Method is http.MethodGet or http.MethodPost.
	Method string

	// Path is the API path, e.g. "/private/api/v2/json/leads/list".
	Path string

	// Payload is sent as query parameters for GET and as the JSON body for
	// POST. It may be nil.
	Payload any
}

// Response is a successfully received reply.
type Response struct {
	// Body is the decoded JSON document, the raw bytes when the body was not
	// JSON, or nil for an empty reply.
	Body any

	StatusCode int
}

// Transport executes requests against the API. Implementations classify
// statuses themselves: a nil error means the body is worth unwrapping.
// Managers share their transport across goroutines, so implementations must
// be safe for concurrent use.
type Transport interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

func (f TransportFunc) Execute(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
