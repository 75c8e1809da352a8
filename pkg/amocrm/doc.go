// Package amocrm is a client for the amoCRM legacy (v2) REST API.
//
// # Overview
//
// The API wraps every request and response in a nested envelope and exposes
// each object type under its own path. Instead of hand-writing a method per
// endpoint, the package describes operations declaratively: an
// OperationDescriptor names the path suffix, the HTTP method, where the
// payload sits inside the request envelope and where the result sits inside
// the response envelope. A Manager combines a descriptor with an Entity and a
// Transport to run the operation end to end:
//
//	look up descriptor -> build path -> stamp timestamp -> wrap -> execute -> unwrap
//
// # Wire Format
//
// Paths have the shape
//
//	/private/api/v2/json/<entity>/<suffix>
//
// Write requests are POSTed as
//
//	{"request": {"leads": {"add": {...}}}}
//
// and answered with
//
//	{"response": {"leads": {"add": [{"id": 42}]}}}
//
// # Built-in Operations
//
//	account_info  GET  /accounts/current  response.account
//	list          GET  /<entity>/list     response.<entity>
//	add           POST /<entity>/set      response.<entity>.add.0.id
//	update        POST /<entity>/set      response.<entity>.update.0.id  (+ last_modified)
//
// More operations can be registered with Registry.With and passed to a
// manager with WithRegistry.
//
// # Malformed Responses
//
// When a successfully received response does not have the expected shape the
// manager returns the whole response instead of the extracted value. This is
// not an error. Callers reading ids should use IDOf, which reports whether
// the value really is an id.
//
// # Example
//
//	client := amocrm.NewClient(transport, amocrm.WithLogger(logger))
//	leads := client.Manager(entities.Leads)
//
//	id, err := leads.CreateOrUpdate(ctx, amocrm.Record{"name": "Deal #1"})
//	if err != nil {
//		return err
//	}
package amocrm
