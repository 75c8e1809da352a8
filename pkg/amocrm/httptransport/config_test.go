package httptransport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "domain", config: Config{Domain: "example"}},
		{name: "base url", config: Config{BaseURL: "http://localhost:8080"}},
		{name: "missing both", config: Config{}, wantErr: "domain or base_url is required"},
		{name: "domain with host", config: Config{Domain: "example.amocrm.ru"}, wantErr: "subdomain"},
		{name: "bad scheme", config: Config{BaseURL: "ftp://example.com"}, wantErr: "http or https"},
		{name: "negative retries", config: Config{Domain: "example", MaxRetries: -1}, wantErr: "max_retries"},
		{name: "negative rate", config: Config{Domain: "example", RateLimit: -1}, wantErr: "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_URL(t *testing.T) {
	assert.Equal(t, "https://example.amocrm.ru", (&Config{Domain: "example"}).URL())
	assert.Equal(t, "http://localhost:8080", (&Config{Domain: "example", BaseURL: "http://localhost:8080/"}).URL())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{Domain: "example", MaxRetries: 5}
	cfg.applyDefaults()

	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	require.NotNil(t, cfg.TLSVerify)
	assert.True(t, *cfg.TLSVerify)
	assert.Zero(t, cfg.RateLimit)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport config")
}

func TestConfig_NewHTTPClient(t *testing.T) {
	insecure := false
	cfg := &Config{Domain: "example", Timeout: 5 * time.Second, TLSVerify: &insecure}

	client := cfg.NewHTTPClient()
	assert.Equal(t, 5*time.Second, client.Timeout)
	assert.NotNil(t, client.Jar)
}

func TestHashAuth_Params(t *testing.T) {
	params := HashAuth{UserLogin: "admin", UserHash: "h"}.Params()
	assert.Equal(t, map[string]string{
		"USER_LOGIN": "admin",
		"USER_HASH":  "h",
		"type":       "json",
	}, params)
}
