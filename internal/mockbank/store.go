// Package mockbank is a self-contained stand-in for the remote banking API,
// used for local development and integration tests. It implements the same
// REST surface with in-memory fixtures; the real API stays an external
// collaborator.
package mockbank

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/crestbank/crest-console/internal/api"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrWrongPassword      = errors.New("old password does not match")
)

type userRecord struct {
	api.User
	passwordHash  []byte
	accountNumber string
}

type accountRecord struct {
	api.Account
	username     string
	transactions []api.Transaction
}

// Store holds the mock bank's state. All access goes through the mutex; the
// dataset is small enough that nothing finer is worth it.
type Store struct {
	mu       sync.Mutex
	users    map[string]*userRecord    // by username
	accounts map[string]*accountRecord // by account number
	nextID   int64
	now      func() time.Time
}

// NewStore returns a store seeded with a demo admin, one cashier and two
// client accounts.
func NewStore() *Store {
	s := &Store{
		users:    make(map[string]*userRecord),
		accounts: make(map[string]*accountRecord),
		now:      time.Now,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.addUser("root", "root@crest.example", "rootpass", api.RoleAdmin, api.Owner{})
	s.addUser("guichet1", "guichet1@crest.example", "guichetpass", api.RoleCashier, api.Owner{})

	awa := s.addUser("awa", "awa@example.com", "awapass123", api.RoleClient, api.Owner{
		Name: "Awa", Surname: "Diallo", Phone: "0611111111", Address: "5 rue des Manguiers",
	})
	marc := s.addUser("marc", "marc@example.com", "marcpass123", api.RoleClient, api.Owner{
		Name: "Marc", Surname: "Ndiaye", Phone: "0622222222", Address: "18 avenue du Port",
	})

	base := s.now().Add(-72 * time.Hour)
	s.accounts[awa.accountNumber].transactions = []api.Transaction{
		{ID: s.id(), Amount: 50000, Type: api.TransactionRecharge, At: base},
		{ID: s.id(), Amount: -4500, Type: api.TransactionTransfer, At: base.Add(24 * time.Hour), DestinationAccount: marc.accountNumber},
	}
	s.accounts[marc.accountNumber].transactions = []api.Transaction{
		{ID: s.id(), Amount: 4500, Type: api.TransactionTransfer, At: base.Add(24 * time.Hour), SourceAccount: awa.accountNumber},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) addUser(username, email, password, role string, owner api.Owner) *userRecord {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &userRecord{
		User: api.User{
			ID:       s.id(),
			Username: username,
			Email:    email,
			Role:     role,
			Active:   true,
			Name:     owner.Name,
			Surname:  owner.Surname,
			Phone:    owner.Phone,
		},
		passwordHash: hash,
	}
	s.users[username] = user

	if role == api.RoleClient {
		owner.Email = email
		owner.Username = username
		number := newAccountNumber()
		s.accounts[number] = &accountRecord{
			Account: api.Account{
				ID:        s.id(),
				Number:    number,
				Balance:   45500,
				Type:      "COURANT",
				Active:    true,
				Currency:  "XAF",
				CreatedAt: s.now().Add(-90 * 24 * time.Hour),
				Owner:     owner,
			},
			username: username,
		}
		user.accountNumber = number
	}
	return user
}

func newAccountNumber() string {
	return "CM" + strings.ToUpper(uuid.NewString()[:8])
}

// Authenticate checks identifier (username or email) and password.
func (s *Store) Authenticate(identifier, password string) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.findUser(identifier)
	if user == nil || !user.Active {
		return api.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		return api.User{}, ErrInvalidCredentials
	}
	return user.User, nil
}

func (s *Store) findUser(identifier string) *userRecord {
	if user, ok := s.users[identifier]; ok {
		return user
	}
	for _, user := range s.users {
		if strings.EqualFold(user.Email, identifier) {
			return user
		}
	}
	return nil
}

// RegisterClient creates a client login with a fresh account.
func (s *Store) RegisterClient(req api.RegistrationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[req.Username] != nil {
		return ErrDuplicateUser
	}
	for _, user := range s.users {
		if strings.EqualFold(user.Email, req.Email) {
			return ErrDuplicateUser
		}
	}
	s.addUser(req.Username, req.Email, req.Password, api.RoleClient, api.Owner{
		Name: req.Name, Surname: req.Surname, Phone: req.Phone, Address: req.Address,
	})
	return nil
}

// CreateCashier provisions a teller login.
func (s *Store) CreateCashier(req api.CreateCashierRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[req.Username] != nil {
		return ErrDuplicateUser
	}
	s.addUser(req.Username, req.Email, req.Password, api.RoleCashier, api.Owner{})
	return nil
}

// AccountForUser returns the account owned by username.
func (s *Store) AccountForUser(username string) (api.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	if user == nil || user.accountNumber == "" {
		return api.Account{}, ErrAccountNotFound
	}
	return s.accounts[user.accountNumber].Account, nil
}

// TransactionsForUser returns the cached transaction list of the caller's
// account.
func (s *Store) TransactionsForUser(username string) ([]api.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	if user == nil || user.accountNumber == "" {
		return nil, ErrAccountNotFound
	}
	account := s.accounts[user.accountNumber]
	out := make([]api.Transaction, len(account.transactions))
	copy(out, account.transactions)
	return out, nil
}

// SearchAccount matches an account by number, or by owner email/username.
func (s *Store) SearchAccount(query string) (api.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.TrimSpace(query)
	if account, ok := s.accounts[query]; ok {
		return account.Account, nil
	}
	for _, account := range s.accounts {
		if strings.EqualFold(account.Owner.Email, query) || strings.EqualFold(account.username, query) {
			return account.Account, nil
		}
	}
	return api.Account{}, ErrAccountNotFound
}

// Deposit credits an account and records the movement.
func (s *Store) Deposit(accountNumber string, amount float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountNumber]
	if !ok {
		return 0, ErrAccountNotFound
	}
	if !account.Active {
		return 0, ErrAccountInactive
	}
	account.Balance += amount
	account.transactions = append(account.transactions, api.Transaction{
		ID: s.id(), Amount: amount, Type: "DEPOSIT", At: s.now(),
	})
	return account.Balance, nil
}

// Withdraw debits an account; the store is the funds authority.
func (s *Store) Withdraw(accountNumber string, amount float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountNumber]
	if !ok {
		return 0, ErrAccountNotFound
	}
	if !account.Active {
		return 0, ErrAccountInactive
	}
	if amount > account.Balance {
		return 0, ErrInsufficientFunds
	}
	account.Balance -= amount
	account.transactions = append(account.transactions, api.Transaction{
		ID: s.id(), Amount: -amount, Type: "WITHDRAWAL", At: s.now(),
	})
	return account.Balance, nil
}

// Transfer moves money between two accounts and records both sides.
func (s *Store) Transfer(req api.TransferRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.accounts[req.SourceAccount]
	if !ok {
		return ErrAccountNotFound
	}
	dst, ok := s.accounts[req.DestinationAccount]
	if !ok {
		return ErrAccountNotFound
	}
	if !src.Active || !dst.Active {
		return ErrAccountInactive
	}
	if req.Amount > src.Balance {
		return ErrInsufficientFunds
	}
	src.Balance -= req.Amount
	dst.Balance += req.Amount
	at := s.now()
	src.transactions = append(src.transactions, api.Transaction{
		ID: s.id(), Amount: -req.Amount, Type: api.TransactionTransfer, Note: req.Note, At: at,
		DestinationAccount: dst.Number,
	})
	dst.transactions = append(dst.transactions, api.Transaction{
		ID: s.id(), Amount: req.Amount, Type: api.TransactionTransfer, Note: req.Note, At: at,
		SourceAccount: src.Number,
	})
	return nil
}

// Recharge credits the caller's own account.
func (s *Store) Recharge(username string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	if user == nil || user.accountNumber == "" {
		return ErrAccountNotFound
	}
	account := s.accounts[user.accountNumber]
	if !account.Active {
		return ErrAccountInactive
	}
	account.Balance += amount
	account.transactions = append(account.transactions, api.Transaction{
		ID: s.id(), Amount: amount, Type: api.TransactionRecharge, At: s.now(),
	})
	return nil
}

// UpdateProfile rewrites the editable owner fields of the caller's account.
func (s *Store) UpdateProfile(username string, req api.ProfileUpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	if user == nil || user.accountNumber == "" {
		return ErrAccountNotFound
	}
	account := s.accounts[user.accountNumber]
	account.Owner.Name = req.Name
	account.Owner.Surname = req.Surname
	account.Owner.Email = req.Email
	account.Owner.Phone = req.Phone
	account.Owner.Address = req.Address
	user.Email = req.Email
	user.Name = req.Name
	user.Surname = req.Surname
	user.Phone = req.Phone
	return nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *Store) ChangePassword(username, oldPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	if user == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(user.passwordHash, []byte(oldPassword)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.passwordHash = hash
	return nil
}

// Accounts lists every account.
func (s *Store) Accounts() []api.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account.Account)
	}
	return out
}

// Users lists every login.
func (s *Store) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user.User)
	}
	return out
}

// SearchUsers matches logins by username or email substring.
func (s *Store) SearchUsers(query string) []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	var out []api.User
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Username), query) ||
			strings.Contains(strings.ToLower(user.Email), query) {
			out = append(out, user.User)
		}
	}
	return out
}

// SetAccountStatus flips the active flag.
func (s *Store) SetAccountStatus(accountNumber string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountNumber]
	if !ok {
		return ErrAccountNotFound
	}
	account.Active = active
	return nil
}
