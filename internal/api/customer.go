package api

import (
	"context"
	"net/http"
)

// CustomerClient wraps the endpoints available to an authenticated account
// holder.
type CustomerClient struct {
	client *Client
}

// NewCustomerClient builds the customer facade.
func NewCustomerClient(client *Client) *CustomerClient {
	return &CustomerClient{client: client}
}

// Profile fetches the caller's account with the nested owner profile.
func (c *CustomerClient) Profile(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.client.getJSON(ctx, "/client/mon-profil", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Transactions fetches the caller's transaction history.
func (c *CustomerClient) Transactions(ctx context.Context) ([]Transaction, error) {
	var transactions []Transaction
	if err := c.client.getJSON(ctx, "/client/mes-transactions", nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Transfer moves money from one of the caller's accounts to another account.
// The server answers with a plain-text message.
func (c *CustomerClient) Transfer(ctx context.Context, req TransferRequest) (string, error) {
	return c.client.sendText(ctx, http.MethodPost, "/client/virement", req)
}

// Recharge credits the caller's own account. Plain-text response.
func (c *CustomerClient) Recharge(ctx context.Context, amount float64) (string, error) {
	return c.client.sendText(ctx, http.MethodPost, "/client/recharger", map[string]float64{"amount": amount})
}

// UpdateProfile rewrites the editable owner fields.
func (c *CustomerClient) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (Message, error) {
	return c.client.sendJSON(ctx, http.MethodPut, "/client/mon-profil", nil, req)
}

// ChangePassword replaces the caller's password. Plain-text response.
func (c *CustomerClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	return c.client.sendText(ctx, http.MethodPatch, "/utilisateur/modifier-mdp", body)
}
