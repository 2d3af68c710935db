// Package workflow implements the account-operation workflow: the rules
// governing who may perform which money-moving operation, under what
// validation, with what user-visible outcome.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/crestbank/crest-console/internal/api"
)

// OperationKind tags a session-local history entry.
type OperationKind string

const (
	OpDeposit    OperationKind = "DEPOSIT"
	OpWithdrawal OperationKind = "WITHDRAWAL"
)

// HistoryEntry records a successful teller-initiated deposit or withdrawal.
// The list is volatile: it lives for the console session and is never sent
// to the server.
type HistoryEntry struct {
	Kind             OperationKind
	Amount           float64
	HolderName       string
	AccountNumber    string
	At               time.Time
	ResultingBalance float64
}

// CounterGateway is the teller-facing remote surface: account lookup and the
// two counter operations. *api.TellerClient satisfies it.
type CounterGateway interface {
	SearchAccount(ctx context.Context, query string) (*api.Account, error)
	Deposit(ctx context.Context, accountNumber string, amount float64) (api.Message, error)
	Withdraw(ctx context.Context, accountNumber string, amount float64) (api.Message, error)
}

// RemittanceGateway is the customer-facing remote surface for transfers and
// recharges. *api.CustomerClient satisfies it.
type RemittanceGateway interface {
	Transfer(ctx context.Context, req api.TransferRequest) (string, error)
	Recharge(ctx context.Context, amount float64) (string, error)
}

// Workflow validates operation requests against the loaded account snapshot,
// dispatches the matching gateway call and reconciles local state with the
// response.
//
// Deposit and Withdraw follow a local-echo policy: on success the signed
// delta is applied to the cached balance and no read-back of the server's
// authoritative figure happens. If the server computed a different result,
// the cached value diverges until the next search. This mirrors the observed
// behavior of the system being replaced and is deliberate.
type Workflow struct {
	counter CounterGateway
	remit   RemittanceGateway
	logger  *slog.Logger

	state     State
	account   *api.Account
	operation OperationKind
	history   []HistoryEntry
	pending   bool

	now func() time.Time
}

// New builds a workflow. Either gateway may be nil when the hosting surface
// never uses that side; calling an operation whose gateway is absent fails
// with ErrNotSupported.
func New(counter CounterGateway, remit RemittanceGateway, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{
		counter: counter,
		remit:   remit,
		logger:  logger,
		state:   StateIdle,
		now:     time.Now,
	}
}

// State returns the current surface state.
func (w *Workflow) State() State { return w.state }

// Account returns the loaded account snapshot, or nil before a successful
// search.
func (w *Workflow) Account() *api.Account { return w.account }

// History returns the session-local operation history, newest first.
func (w *Workflow) History() []HistoryEntry { return w.history }

// SelectOperation marks the operation form the teller opened. It clears any
// stale outcome from a previous operation.
func (w *Workflow) SelectOperation(kind OperationKind) error {
	if w.account == nil {
		return ErrNoAccountSelected
	}
	w.operation = kind
	w.state = StateOperationSelected
	return nil
}

// Reset discards the loaded account and returns to the initial state, ready
// for a new search.
func (w *Workflow) Reset() {
	w.account = nil
	w.operation = ""
	w.state = StateIdle
}

// Search loads the account matching query into the working set. The query
// must be non-empty after trimming; a 404 leaves the account unset and moves
// to StateNotFound.
func (w *Workflow) Search(ctx context.Context, query string) (*api.Account, error) {
	if w.counter == nil {
		return nil, ErrNotSupported
	}
	if w.pending {
		return nil, ErrOperationPending
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrIdentifierRequired
	}

	w.pending = true
	w.state = StateSearching
	w.account = nil
	defer func() { w.pending = false }()

	account, err := w.counter.SearchAccount(ctx, query)
	if err != nil {
		if api.IsNotFound(err) {
			w.state = StateNotFound
			return nil, &OperationError{msg: "no account found with that identifier", cause: err}
		}
		w.logger.Warn("account search failed", slog.String("query", query), slog.Any("error", err))
		w.state = StateIdle
		return nil, &OperationError{msg: "error during search", cause: err}
	}

	w.account = account
	w.state = StateFound
	return account, nil
}

// Deposit credits the loaded account. On success the cached balance is
// increased by amount and a history entry is appended with the resulting
// balance.
func (w *Workflow) Deposit(ctx context.Context, amount float64) (string, error) {
	return w.counterOperation(ctx, OpDeposit, amount)
}

// Withdraw debits the loaded account. Besides the shared checks it requires
// amount <= cached balance; the server may still reject for reasons the
// cache cannot see, such as a concurrent deactivation.
func (w *Workflow) Withdraw(ctx context.Context, amount float64) (string, error) {
	return w.counterOperation(ctx, OpWithdrawal, amount)
}

func (w *Workflow) counterOperation(ctx context.Context, kind OperationKind, amount float64) (string, error) {
	if w.counter == nil {
		return "", ErrNotSupported
	}
	if w.pending {
		return "", ErrOperationPending
	}
	if w.account == nil {
		return "", ErrNoAccountSelected
	}
	if amount <= 0 {
		return "", ErrAmountNotPositive
	}
	if kind == OpWithdrawal && amount > w.account.Balance {
		return "", ErrInsufficientBalance
	}

	w.pending = true
	w.state = StateProcessing
	defer func() { w.pending = false }()

	var (
		msg api.Message
		err error
	)
	if kind == OpDeposit {
		msg, err = w.counter.Deposit(ctx, w.account.Number, amount)
	} else {
		msg, err = w.counter.Withdraw(ctx, w.account.Number, amount)
	}
	if err != nil {
		w.state = StateOperationSelected
		if kind == OpDeposit {
			return "", remoteError("error during deposit", err)
		}
		return "", remoteError("error during withdrawal", err)
	}

	// Local echo: apply the signed delta without re-reading the server's
	// authoritative balance.
	if kind == OpDeposit {
		w.account.Balance += amount
	} else {
		w.account.Balance -= amount
	}

	entry := HistoryEntry{
		Kind:             kind,
		Amount:           amount,
		HolderName:       w.account.Owner.FullName(),
		AccountNumber:    w.account.Number,
		At:               w.now(),
		ResultingBalance: w.account.Balance,
	}
	w.history = append([]HistoryEntry{entry}, w.history...)

	w.operation = ""
	w.state = StateFound

	if msg.Message != "" {
		return msg.Message, nil
	}
	if kind == OpDeposit {
		return "deposit completed successfully", nil
	}
	return "withdrawal completed successfully", nil
}

// Transfer moves money between two accounts. It never touches the cached
// balance; the hosting surface refreshes from the server afterwards.
func (w *Workflow) Transfer(ctx context.Context, req api.TransferRequest) (string, error) {
	if w.remit == nil {
		return "", ErrNotSupported
	}
	if w.pending {
		return "", ErrOperationPending
	}
	if strings.TrimSpace(req.SourceAccount) == "" || strings.TrimSpace(req.DestinationAccount) == "" {
		return "", ErrAccountRequired
	}
	if req.Amount <= 0 {
		return "", ErrAmountNotPositive
	}

	w.pending = true
	defer func() { w.pending = false }()

	msg, err := w.remit.Transfer(ctx, req)
	if err != nil {
		return "", remoteError("error during transfer", err)
	}
	if msg == "" {
		msg = "transfer completed successfully"
	}
	return msg, nil
}

// Recharge credits the caller's own account. No local balance mutation.
func (w *Workflow) Recharge(ctx context.Context, amount float64) (string, error) {
	if w.remit == nil {
		return "", ErrNotSupported
	}
	if w.pending {
		return "", ErrOperationPending
	}
	if amount <= 0 {
		return "", ErrAmountNotPositive
	}

	w.pending = true
	defer func() { w.pending = false }()

	msg, err := w.remit.Recharge(ctx, amount)
	if err != nil {
		return "", remoteError("error during recharge", err)
	}
	if msg == "" {
		msg = "recharge completed successfully"
	}
	return msg, nil
}

// remoteError prefers the server's own message and falls back to the
// per-operation generic one.
func remoteError(fallback string, err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &OperationError{msg: apiErr.Message, cause: err}
	}
	return &OperationError{msg: fallback, cause: err}
}
