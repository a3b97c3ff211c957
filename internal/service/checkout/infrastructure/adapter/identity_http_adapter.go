package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"sneakerspot/internal/pkg/httpclient"
	"sneakerspot/internal/service/checkout/port"
)

// ErrInvalidToken is returned for tokens the identity provider rejects.
var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityHTTPAdapter verifies access tokens against the identity provider.
// The bffs depend only on this narrow Verify seam, never on token internals.
type IdentityHTTPAdapter struct {
	baseURL string
	client  *httpclient.Client
}

func NewIdentityHTTPAdapter(baseURL string, client *httpclient.Client) *IdentityHTTPAdapter {
	return &IdentityHTTPAdapter{baseURL: baseURL, client: client}
}

func (a *IdentityHTTPAdapter) Verify(ctx context.Context, token string) (*port.Identity, error) {
	var out struct {
		UserID int64  `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	params := url.Values{"token": {token}}
	if err := a.client.Post(ctx, a.baseURL+"/verify", params, &out); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("identity provider: %w", err)
	}
	return &port.Identity{UserID: out.UserID, Email: out.Email, Role: out.Role}, nil
}
