package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

const userAgent = "Amocrm API module. Go powered"

// Transport implements amocrm.Transport over HTTP. It is safe for concurrent
// use.
type Transport struct {
	config  *Config
	baseURL string
	client  *http.Client
	auth    Authenticator
	limiter *rate.Limiter
	logger  hclog.Logger
}

var _ amocrm.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the transport's logger.
func WithLogger(l hclog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithHTTPClient replaces the client built from the config.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// New creates a transport. auth may be nil for endpoints that need no
// credentials.
func New(cfg *Config, auth Authenticator, opts ...Option) (*Transport, error) {
	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		if b := int(cfg.RateLimit); b > burst {
			burst = b
		}
	}

	t := &Transport{
		config:  cfg,
		baseURL: cfg.URL(),
		client:  cfg.NewHTTPClient(),
		auth:    auth,
		limiter: rate.NewLimiter(limit, burst),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.Named("transport")

	return t, nil
}

// BaseURL returns the API root requests are sent to.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Execute sends req. GET payloads become query parameters, POST payloads the
// JSON body.
func (t *Transport) Execute(ctx context.Context, req amocrm.Request) (*amocrm.Response, error) {
	var (
		query url.Values
		body  any
	)
	if req.Method == http.MethodPost {
		body = req.Payload
	} else {
		query = EncodeParams(req.Payload)
	}
	return t.send(ctx, req.Method, req.Path, query, body)
}

// send executes one logical request with exponential backoff. See retryable
// for what is retried.
func (t *Transport) send(ctx context.Context, method, path string, query url.Values, body any) (*amocrm.Response, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	requestID := uuid.NewString()
	logger := t.logger.With("request_id", requestID)

	logger.Info("sending request", "method", method, "path", path)
	logger.Debug("request data", "params", query.Encode(), "body", string(bodyBytes))

	var result *amocrm.Response
	attempt := 0
	operation := func() error {
		attempt++
		if err := t.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := t.do(ctx, requestID, method, path, query, bodyBytes)
		if err != nil {
			if retryable(method, err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = resp
		return nil
	}

	notify := func(err error, next time.Duration) {
		logger.Warn("request failed, retrying",
			"attempt", attempt,
			"next", next,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(operation, t.newBackOff(ctx), notify); err != nil {
		logger.Error("request failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	return result, nil
}

func (t *Transport) newBackOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if t.config.RetryDelay > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = t.config.RetryDelay
		eb.MaxElapsedTime = 0
		eb.Reset()
		b = eb
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(t.config.MaxRetries)), ctx)
}

func (t *Transport) do(ctx context.Context, requestID, method, path string, query url.Values, body []byte) (*amocrm.Response, error) {
	u, err := url.Parse(t.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if t.auth != nil {
		if err := t.auth.Authenticate(req); err != nil {
			return nil, &amocrm.AuthenticationError{Message: err.Error()}
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &amocrm.TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &amocrm.TransportError{Method: method, Path: path, Err: err}
	}

	return classify(resp.StatusCode, respBody)
}

// classify maps an HTTP status onto a response or a typed error. 400 is
// treated as a readable reply since the API reports validation problems
// inside the envelope.
func classify(status int, body []byte) (*amocrm.Response, error) {
	switch {
	case status == http.StatusNoContent:
		return &amocrm.Response{StatusCode: status}, nil
	case status < 300 || status == http.StatusBadRequest:
		return &amocrm.Response{Body: decodeBody(body), StatusCode: status}, nil
	case status == http.StatusUnauthorized:
		return nil, &amocrm.AuthenticationError{StatusCode: status, Message: string(body)}
	case status == http.StatusPaymentRequired:
		return nil, &amocrm.PaymentRequiredError{Message: string(body)}
	case status == http.StatusForbidden:
		return nil, &amocrm.PermissionError{StatusCode: status, Message: string(body)}
	}
	return nil, &amocrm.APIError{StatusCode: status, Body: string(body)}
}

// decodeBody returns the decoded JSON document, or the raw bytes when the
// body is not JSON.
func decodeBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return body
	}
	return v
}

// retryable reports whether a failed attempt may be repeated. 429 always is.
// Server errors and broken connections are retried for GET and HEAD only,
// since a write may already have been applied.
func retryable(method string, err error) bool {
	idempotent := method == http.MethodGet || method == http.MethodHead

	var apiErr *amocrm.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return idempotent && apiErr.StatusCode >= 500
	}

	var te *amocrm.TransportError
	if !errors.As(err, &te) {
		return false
	}
	if idempotent {
		return true
	}
	// A failed dial never reached the server.
	var opErr *net.OpError
	return errors.As(te.Err, &opErr) && opErr.Op == "dial"
}

// EncodeParams flattens a payload into query parameters. Nested objects and
// arrays use bracket notation: filter[status]=1, id[]=1&id[]=2.
func EncodeParams(payload any) url.Values {
	values := url.Values{}
	switch m := payload.(type) {
	case amocrm.Record:
		addObject(values, "", m)
	case map[string]any:
		addObject(values, "", m)
	}
	return values
}

func addObject(values url.Values, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "[" + k + "]"
		}
		addParam(values, key, m[k])
	}
}

func addParam(values url.Values, key string, v any) {
	switch t := v.(type) {
	case nil:
	case amocrm.Record:
		addObject(values, key, t)
	case map[string]any:
		addObject(values, key, t)
	case []any:
		for _, item := range t {
			addParam(values, key+"[]", item)
		}
	case []string:
		for _, item := range t {
			values.Add(key+"[]", item)
		}
	case []int64:
		for _, item := range t {
			values.Add(key+"[]", fmt.Sprint(item))
		}
	default:
		values.Add(key, fmt.Sprint(t))
	}
}
