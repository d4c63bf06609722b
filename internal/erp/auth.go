package erp

import (
	"context"
	"errors"
	"net/http"

	"github.com/telar-erp/telar-admin/internal/identity"
)

// Login exchanges credentials for a bearer token. The call is
// unauthenticated; any rejection surfaces as ErrUnauthorized so the login
// form can show a generic message.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(withoutCredential(ctx), http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("erp: login response missing token")
	}
	return out.Token, nil
}

// FetchProfile returns the backend's current view of the session identity,
// authenticated with the stored credential.
func (c *Client) FetchProfile(ctx context.Context) (*identity.Identity, error) {
	return c.fetchProfile(ctx, "")
}

// FetchProfileWithToken fetches the profile for a token that has not been
// stored yet, used during the login exchange.
func (c *Client) FetchProfileWithToken(ctx context.Context, token string) (*identity.Identity, error) {
	return c.fetchProfile(ctx, token)
}

func (c *Client) fetchProfile(ctx context.Context, token string) (*identity.Identity, error) {
	var id identity.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me-permissions", token, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}
