package httptransport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

// LoginPath is the session login endpoint.
const LoginPath = "/private/api/auth.php"

// Login opens a cookie session for login/hash. Requests sent afterwards
// through the same transport reuse the session cookie.
func (t *Transport) Login(ctx context.Context, login, hash string) error {
	resp, err := t.send(ctx, http.MethodPost, LoginPath,
		url.Values{"type": {"json"}},
		map[string]string{
			"USER_LOGIN": login,
			"USER_HASH":  hash,
		},
	)
	if err != nil {
		return err
	}

	if !authorized(resp.Body) {
		t.logger.Error("login rejected", "login", login)
		return &amocrm.AuthenticationError{
			StatusCode: resp.StatusCode,
			Message:    "login rejected for " + login,
		}
	}

	t.logger.Info("logged in", "login", login)
	return nil
}

// authorized reports whether a login reply carries response.auth == true.
func authorized(body any) bool {
	doc, ok := body.(map[string]any)
	if !ok {
		return false
	}
	response, ok := doc["response"].(map[string]any)
	if !ok {
		return false
	}
	auth, _ := response["auth"].(bool)
	return auth
}
