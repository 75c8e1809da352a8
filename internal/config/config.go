package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm/httptransport"
)

// Config contains the amocrm CLI configuration.
type Config struct {
	// LogLevel is the level of the root logger: trace, debug, info, warn or
	// error.
	LogLevel string `hcl:"log_level,optional" json:"log_level"`

	// AmoCRM configures the account and its credentials.
	AmoCRM *AmoCRM `hcl:"amocrm,block" json:"amocrm"`

	// Transport configures the HTTP transport.
	Transport *Transport `hcl:"transport,block" json:"transport"`

	// OAuth replaces hash authentication with OAuth2 bearer tokens.
	OAuth *OAuth `hcl:"oauth,block" json:"oauth"`
}

// AmoCRM configures the account.
type AmoCRM struct {
	// Domain is the account subdomain.
	Domain string `hcl:"domain,optional" json:"domain"`

	// BaseURL overrides the URL derived from Domain.
	BaseURL string `hcl:"base_url,optional" json:"base_url"`

	// Format is the API path format segment. Defaults to "json".
	Format string `hcl:"format,optional" json:"format"`

	UserLogin string `hcl:"user_login,optional" json:"user_login"`
	UserHash  string `hcl:"user_hash,optional" json:"user_hash"`

	// ResponsibleUser is the id, login or name of the user new objects are
	// assigned to. Defaults to UserLogin.
	ResponsibleUser string `hcl:"responsible_user,optional" json:"responsible_user"`
}

// Transport configures request timeouts, retries and rate limiting.
// Durations use time.ParseDuration syntax ("3s", "500ms").
type Transport struct {
	Timeout    string   `hcl:"timeout,optional" json:"timeout"`
	MaxRetries *int     `hcl:"max_retries,optional" json:"max_retries"`
	RetryDelay string   `hcl:"retry_delay,optional" json:"retry_delay"`
	RateLimit  *float64 `hcl:"rate_limit,optional" json:"rate_limit"`
	TLSVerify  *bool    `hcl:"tls_verify,optional" json:"tls_verify"`
}

// OAuth holds the integration credentials of an OAuth2 integration.
type OAuth struct {
	ClientID     string `hcl:"client_id" json:"client_id"`
	ClientSecret string `hcl:"client_secret" json:"client_secret"`
	RedirectURI  string `hcl:"redirect_uri,optional" json:"redirect_uri"`
	RefreshToken string `hcl:"refresh_token" json:"refresh_token"`
}

// NewConfig parses, defaults and validates an HCL configuration file.
// Attribute expressions may call env(name) to read environment variables.
func NewConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(filename, evalContext(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	// Set defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Transport == nil {
		cfg.Transport = &Transport{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env":      envFunc,
			"coalesce": stdlib.CoalesceFunc,
			"lower":    stdlib.LowerFunc,
			"upper":    stdlib.UpperFunc,
		},
	}
}

// envFunc returns the value of an environment variable, or "" when it is
// unset.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// Validate checks every block and reports all problems at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.Validate(c.LogLevel,
		validation.In("trace", "debug", "info", "warn", "error"),
	); err != nil {
		result = multierror.Append(result, fmt.Errorf("log_level: %w", err))
	}

	if c.AmoCRM == nil {
		result = multierror.Append(result, errors.New("amocrm block is required"))
	} else if err := c.AmoCRM.validate(c.OAuth != nil); err != nil {
		result = multierror.Append(result, fmt.Errorf("amocrm: %w", err))
	}

	if c.Transport != nil {
		if err := c.Transport.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("transport: %w", err))
		}
	}

	if c.OAuth != nil {
		if err := c.OAuth.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("oauth: %w", err))
		}
	}

	return result.ErrorOrNil()
}

func (a *AmoCRM) validate(oauth bool) error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Domain,
			validation.When(a.BaseURL == "", validation.Required.Error("domain or base_url is required"))),
		validation.Field(&a.UserLogin, validation.When(!oauth, validation.Required)),
		validation.Field(&a.UserHash, validation.When(!oauth, validation.Required)),
	)
}

// Validate checks durations and limits.
func (t *Transport) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Timeout, validation.By(validDuration)),
		validation.Field(&t.RetryDelay, validation.By(validDuration)),
		validation.Field(&t.MaxRetries, validation.Min(0)),
		validation.Field(&t.RateLimit, validation.Min(0.0)),
	)
}

func (o *OAuth) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ClientID, validation.Required),
		validation.Field(&o.ClientSecret, validation.Required),
		validation.Field(&o.RefreshToken, validation.Required),
	)
}

func validDuration(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("must be a duration such as 3s")
	}
	if d < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// TransportConfig converts the configuration into an HTTP transport config.
// Unset values keep the transport's defaults.
func (c *Config) TransportConfig() (*httptransport.Config, error) {
	cfg := httptransport.DefaultConfig()
	if c.AmoCRM != nil {
		cfg.Domain = c.AmoCRM.Domain
		cfg.BaseURL = c.AmoCRM.BaseURL
	}

	t := c.Transport
	if t == nil {
		return cfg, nil
	}
	if t.Timeout != "" {
		d, err := time.ParseDuration(t.Timeout)
		if err != nil {
			return nil, fmt.Errorf("error parsing timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if t.RetryDelay != "" {
		d, err := time.ParseDuration(t.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("error parsing retry_delay: %w", err)
		}
		cfg.RetryDelay = d
	}
	if t.MaxRetries != nil {
		cfg.MaxRetries = *t.MaxRetries
	}
	if t.RateLimit != nil {
		cfg.RateLimit = *t.RateLimit
	}
	if t.TLSVerify != nil {
		cfg.TLSVerify = t.TLSVerify
	}
	return cfg, nil
}

// Authenticator returns TokenAuth when an oauth block is present and
// HashAuth otherwise. baseURL is the API root tokens are refreshed at.
func (c *Config) Authenticator(ctx context.Context, baseURL string) httptransport.Authenticator {
	if c.OAuth != nil {
		oauth := httptransport.OAuthConfig{
			ClientID:     c.OAuth.ClientID,
			ClientSecret: c.OAuth.ClientSecret,
			RedirectURI:  c.OAuth.RedirectURI,
			RefreshToken: c.OAuth.RefreshToken,
		}
		return httptransport.TokenAuth{Source: oauth.TokenSource(ctx, baseURL)}
	}

	var auth httptransport.HashAuth
	if c.AmoCRM != nil {
		auth.UserLogin = c.AmoCRM.UserLogin
		auth.UserHash = c.AmoCRM.UserHash
	}
	return auth
}

// ClientOptions returns the manager options the configuration implies.
func (c *Config) ClientOptions(logger hclog.Logger) []amocrm.Option {
	opts := []amocrm.Option{amocrm.WithLogger(logger)}
	if c.AmoCRM == nil {
		return opts
	}

	if c.AmoCRM.Format != "" {
		opts = append(opts, amocrm.WithFormat(c.AmoCRM.Format))
	}

	responsible := c.AmoCRM.ResponsibleUser
	if responsible == "" {
		responsible = c.AmoCRM.UserLogin
	}
	if responsible != "" {
		opts = append(opts, amocrm.WithResponsibleUser(responsible))
	}
	return opts
}
