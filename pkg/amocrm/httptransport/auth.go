package httptransport

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Authenticator attaches credentials to every outgoing request.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// HashAuth authenticates with the user login and API hash, sent as query
// parameters on every request.
type HashAuth struct {
	UserLogin string
	UserHash  string
}

// Params returns the parameters merged into each request.
func (a HashAuth) Params() map[string]string {
	return map[string]string{
		"USER_LOGIN": a.UserLogin,
		"USER_HASH":  a.UserHash,
		"type":       "json",
	}
}

func (a HashAuth) Authenticate(req *http.Request) error {
	q := req.URL.Query()
	for k, v := range a.Params() {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	return nil
}

// TokenAuth authenticates with an OAuth2 bearer token.
type TokenAuth struct {
	Source oauth2.TokenSource
}

func (a TokenAuth) Authenticate(req *http.Request) error {
	token, err := a.Source.Token()
	if err != nil {
		return fmt.Errorf("error getting access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

// OAuthConfig holds the integration credentials used to refresh access
// tokens.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	RefreshToken string
}

// TokenSource returns a token source that exchanges the refresh token at
// <baseURL>/oauth2/access_token and refreshes the access token as it
// expires.
func (c OAuthConfig) TokenSource(ctx context.Context, baseURL string) oauth2.TokenSource {
	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   baseURL + "/oauth",
			TokenURL:  baseURL + "/oauth2/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})
}
