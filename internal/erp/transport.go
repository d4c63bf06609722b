package erp

import (
	"context"
	"net/http"
)

// SessionState is the slice of the session store the transport needs: the
// credential to attach, and the ability to drop a rejected session.
type SessionState interface {
	Token() string
	Clear(ctx context.Context)
}

type anonKey struct{}

// withoutCredential marks a request as deliberately unauthenticated. The
// login exchange uses it so a rejected credential attempt cannot knock out
// a live session.
func withoutCredential(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonKey{}, struct{}{})
}

// Transport decorates outbound requests with the bearer credential and
// watches responses for session invalidation. A 401 clears the session only
// when the stored credential was the one presented; it never redirects —
// navigation reacts to the resulting absence of identity, which keeps
// redirect ownership in one layer.
type Transport struct {
	Base     http.RoundTripper
	Sessions SessionState
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	out := req.Clone(req.Context())
	attached := false
	if req.Context().Value(anonKey{}) == nil && out.Header.Get("Authorization") == "" {
		if token := t.Sessions.Token(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
			attached = true
		}
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && attached {
		t.Sessions.Clear(req.Context())
	}
	return resp, nil
}
