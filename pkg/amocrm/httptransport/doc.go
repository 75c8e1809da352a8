// Package httptransport executes amocrm requests over HTTP.
//
// GET payloads are flattened into query parameters, POST payloads are sent
// as JSON. Every request carries the credentials of the configured
// Authenticator: HashAuth adds USER_LOGIN/USER_HASH parameters, TokenAuth an
// OAuth2 bearer header.
//
// # Status Handling
//
//	204          empty response
//	2xx, 400     decoded JSON body (raw bytes if the body is not JSON)
//	401          *amocrm.AuthenticationError
//	402          *amocrm.PaymentRequiredError
//	403          *amocrm.PermissionError
//	other        *amocrm.APIError
//
// Connection failures become *amocrm.TransportError. Connection failures, 429
// and 5xx responses are retried with exponential backoff up to
// Config.MaxRetries times. Requests are rate limited to Config.RateLimit per
// second.
package httptransport
