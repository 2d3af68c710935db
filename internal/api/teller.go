package api

import (
	"context"
	"net/http"
	"net/url"
)

// TellerClient wraps the counter (guichet) endpoints used by cashiers.
type TellerClient struct {
	client *Client
}

// NewTellerClient builds the teller facade.
func NewTellerClient(client *Client) *TellerClient {
	return &TellerClient{client: client}
}

// SearchAccount looks an account up by account number, email or username.
// A 404 response surfaces as *Error with IsNotFound(err) true.
func (t *TellerClient) SearchAccount(ctx context.Context, query string) (*Account, error) {
	params := url.Values{"query": {query}}
	var account Account
	if err := t.client.getJSON(ctx, "/guichet/recherche-compte", params, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Deposit credits the given account at the counter.
func (t *TellerClient) Deposit(ctx context.Context, accountNumber string, amount float64) (Message, error) {
	return t.client.sendJSON(ctx, http.MethodPost, "/guichet/depot", nil, operationRequest{
		AccountNumber: accountNumber,
		Amount:        amount,
	})
}

// Withdraw debits the given account at the counter. The server remains the
// authority on funds and account status; the workflow only pre-checks.
func (t *TellerClient) Withdraw(ctx context.Context, accountNumber string, amount float64) (Message, error) {
	return t.client.sendJSON(ctx, http.MethodPost, "/guichet/retrait", nil, operationRequest{
		AccountNumber: accountNumber,
		Amount:        amount,
	})
}

type operationRequest struct {
	AccountNumber string  `json:"accountNumber"`
	Amount        float64 `json:"amount"`
}
