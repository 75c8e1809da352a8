package httptransport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config contains configuration for the amoCRM HTTP transport.
//
// Example configuration (HCL, see internal/config):
//
//	amocrm {
//	  domain = "example"
//	}
//	transport {
//	  timeout     = "3s"
//	  max_retries = 3
//	  retry_delay = "1s"
//	  rate_limit  = 7
//	}
type Config struct {
	// Domain is the account subdomain: requests go to
	// https://<domain>.amocrm.ru.
	Domain string `json:"domain"`

	// BaseURL overrides the URL derived from Domain.
	BaseURL string `json:"base_url,omitempty"`

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool `json:"tls_verify,omitempty"`

	// Timeout for each HTTP request.
	// Default: 3 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries for requests failing with a connection error, 429 or 5xx.
	// Zero disables retries; DefaultConfig sets 3.
	MaxRetries int `json:"max_retries,omitempty"`

	// RetryDelay is the initial delay of the exponential backoff.
	// Default: 1 second
	RetryDelay time.Duration `json:"retry_delay,omitempty"`

	// RateLimit is the maximum number of requests per second. Zero disables
	// limiting; DefaultConfig sets 7.
	RateLimit float64 `json:"rate_limit,omitempty"`
}

// DefaultConfig returns a Config with the API's documented limits.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TLSVerify:  &tlsVerify,
		Timeout:    3 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		RateLimit:  7,
	}
}

// applyDefaults fills unset fields from DefaultConfig. MaxRetries and
// RateLimit are left alone since zero is meaningful for both.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaults.RetryDelay
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Domain,
			validation.When(c.BaseURL == "",
				validation.Required.Error("domain or base_url is required")),
			validation.By(validDomain),
		),
		validation.Field(&c.BaseURL, validation.By(validBaseURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimit, validation.Min(0.0)),
	)
}

func validDomain(value any) error {
	domain, _ := value.(string)
	if strings.ContainsAny(domain, "/:. ") {
		return errors.New("must be the account subdomain only")
	}
	return nil
}

func validBaseURL(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %s", u.Scheme)
	}
	return nil
}

// URL returns the API root, without a trailing slash.
func (c *Config) URL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.amocrm.ru", c.Domain)
}

// NewHTTPClient creates a configured HTTP client. It keeps session cookies
// set by the login endpoint.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	// cookiejar.New only fails on a broken public suffix list option.
	jar, _ := cookiejar.New(nil)

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
		Jar:       jar,
	}
}
