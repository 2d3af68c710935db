package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthClient wraps the authentication endpoints. On a successful login the
// returned credential is stored into the bound session so that every
// subsequent call on any facade carries it.
type AuthClient struct {
	client *Client
	store  tokenStore
}

type tokenStore interface {
	Store(token string)
	Clear()
}

// NewAuthClient builds the auth facade. store receives the credential from
// Login and is cleared by Logout; pass the same session the client was built
// with.
func NewAuthClient(client *Client, store tokenStore) *AuthClient {
	return &AuthClient{client: client, store: store}
}

// Login exchanges credentials for a bearer token and role list.
func (a *AuthClient) Login(ctx context.Context, identifier, password string) (LoginResponse, error) {
	body := map[string]string{
		"identifier": identifier,
		"password":   password,
	}
	raw, err := a.client.do(ctx, http.MethodPost, "/auth/connexion", nil, body)
	if err != nil {
		return LoginResponse{}, err
	}
	var resp LoginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("decode login response: %w", err)
	}
	a.store.Store(resp.Token)
	return resp, nil
}

// Register creates a client login. The server answers with a plain-text
// confirmation message.
func (a *AuthClient) Register(ctx context.Context, req RegistrationRequest) (string, error) {
	return a.client.sendText(ctx, http.MethodPost, "/auth/inscription", req)
}

// Logout discards the held credential. Purely local: the server keeps no
// session state the console could revoke.
func (a *AuthClient) Logout() {
	a.store.Clear()
}
