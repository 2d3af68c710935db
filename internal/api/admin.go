package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// AdminClient wraps the administration endpoints.
type AdminClient struct {
	client *Client
}

// NewAdminClient builds the admin facade.
func NewAdminClient(client *Client) *AdminClient {
	return &AdminClient{client: client}
}

// Accounts lists every account in the bank.
func (a *AdminClient) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := a.client.getJSON(ctx, "/admin/comptes", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetAccountStatus activates or deactivates an account. Deactivated accounts
// refuse every money-moving operation server-side.
func (a *AdminClient) SetAccountStatus(ctx context.Context, accountNumber string, active bool) (Message, error) {
	params := url.Values{"actif": {strconv.FormatBool(active)}}
	return a.client.sendJSON(ctx, http.MethodPatch, "/admin/comptes/"+accountNumber+"/statut", params, nil)
}

// Users lists every login known to the bank.
func (a *AdminClient) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := a.client.getJSON(ctx, "/admin/utilisateurs", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchUsers runs a server-side global search across usernames and emails.
func (a *AdminClient) SearchUsers(ctx context.Context, query string) ([]User, error) {
	params := url.Values{"q": {query}}
	var users []User
	if err := a.client.getJSON(ctx, "/admin/utilisateurs/search", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateCashier provisions a teller login. Users are deactivated rather than
// deleted, so there is no matching remove call.
func (a *AdminClient) CreateCashier(ctx context.Context, req CreateCashierRequest) (Message, error) {
	return a.client.sendJSON(ctx, http.MethodPost, "/admin/utilisateurs/caissier", nil, req)
}
