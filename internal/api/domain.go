// Package api contains the gateway clients for the remote banking REST API.
package api

import "time"

// Role values returned by the login endpoint.
const (
	RoleClient  = "ROLE_CLIENT"
	RoleCashier = "ROLE_CASHIER"
	RoleAdmin   = "ROLE_ADMIN"
)

// Transaction type tags used by the server.
const (
	TransactionTransfer = "TRANSFER"
	TransactionRecharge = "RECHARGE"
)

// Owner is the client profile nested inside an account.
type Owner struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Username string `json:"username,omitempty"`
}

// FullName renders the owner as "Surname Name", the way tellers read it.
func (o Owner) FullName() string {
	if o.Surname == "" {
		return o.Name
	}
	return o.Surname + " " + o.Name
}

// Account is the server's view of a bank account. The balance is only ever
// assigned from a server response; money-moving mutations go through the
// workflow.
type Account struct {
	ID        int64     `json:"id,omitempty"`
	Number    string    `json:"accountNumber"`
	Balance   float64   `json:"balance"`
	Type      string    `json:"accountType,omitempty"`
	Active    bool      `json:"active"`
	Currency  string    `json:"currency,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	Owner     Owner     `json:"owner"`
}

// Transaction is a server-authoritative record; the console holds a read-only
// cached copy. Sign encodes direction from the owner's point of view:
// negative is a debit, positive a credit.
type Transaction struct {
	ID                 int64     `json:"id"`
	Amount             float64   `json:"amount"`
	Type               string    `json:"type"`
	Note               string    `json:"note,omitempty"`
	At                 time.Time `json:"timestamp"`
	SourceAccount      string    `json:"sourceAccount,omitempty"`
	DestinationAccount string    `json:"destinationAccount,omitempty"`
}

// User is an account-holder or staff login as listed by the admin endpoints.
// The transport returns a role list; this model keeps exactly one role.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Message is the structured response body used by mutating endpoints.
type Message struct {
	Message string `json:"message"`
}

// RegistrationRequest creates a new client login.
type RegistrationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// TransferRequest moves money between two accounts.
type TransferRequest struct {
	SourceAccount      string  `json:"sourceAccount"`
	DestinationAccount string  `json:"destinationAccount"`
	Amount             float64 `json:"amount"`
	Note               string  `json:"note,omitempty"`
}

// ProfileUpdateRequest rewrites the editable owner fields.
type ProfileUpdateRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateCashierRequest provisions a teller login.
type CreateCashierRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
