package api

import (
	"context"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/pkg/httpclient"
)

// LoginResponse is the POST /login payload: the user record plus a token
// object whose value is the opaque bearer token.
type LoginResponse struct {
	User  models.User `json:"user"`
	Token struct {
		Value string `json:"value"`
	} `json:"token"`
}

// Login authenticates with email/password. The unauthorized broadcast is
// suppressed on this request: a 401 here means bad credentials, not an
// expired session, and must not tear down anything.
func Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := httpclient.Post("/login").
		Body(map[string]string{"email": email, "password": password}).
		SuppressUnauthorized().
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout terminates the server-side session. Returns 204 on success.
func Logout(ctx context.Context, token string) error {
	_, err := httpclient.Delete("/logout").
		Bearer(token).
		WithContext(ctx).
		Send()
	return err
}
