package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/workflow"
)

// ClientSection enumerates the client dashboard's sections.
type ClientSection int

const (
	SectionOverview ClientSection = iota
	SectionTransactions
	SectionTransfer
	SectionRecharge
	SectionProfile
)

// ErrSessionExpired signals that the server rejected the held credential and
// the console must return to the login prompt.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// QuickRechargeAmounts are the preset amounts offered on the recharge form.
var QuickRechargeAmounts = []float64{20000, 30000, 50000, 100000, 150000, 200000}

// CustomerGateway is the remote surface the client dashboard reads from.
// *api.CustomerClient satisfies it.
type CustomerGateway interface {
	Profile(ctx context.Context) (*api.Account, error)
	Transactions(ctx context.Context) ([]api.Transaction, error)
	UpdateProfile(ctx context.Context, req api.ProfileUpdateRequest) (api.Message, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error)
}

type credentialClearer interface {
	Clear()
}

// ClientDashboard owns the account holder's view: the loaded account
// snapshot, the cached transaction list and derived totals. All aggregates
// are recomputed in full from the loaded collections on every call.
type ClientDashboard struct {
	gateway      CustomerGateway
	flow         *workflow.Workflow
	session      credentialClearer
	logger       *slog.Logger
	notices      *Notices
	section      ClientSection
	loading      bool
	account      *api.Account
	transactions []api.Transaction
}

// NewClientDashboard builds the surface. flow carries the remittance side of
// the operation workflow (transfer, recharge).
func NewClientDashboard(gateway CustomerGateway, flow *workflow.Workflow, sess credentialClearer, logger *slog.Logger, noticeTTL time.Duration) *ClientDashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientDashboard{
		gateway: gateway,
		flow:    flow,
		session: sess,
		logger:  logger,
		notices: NewNotices(noticeTTL),
	}
}

// Notices exposes the surface's transient messages.
func (d *ClientDashboard) Notices() *Notices { return d.notices }

// Section returns the active section.
func (d *ClientDashboard) Section() ClientSection { return d.section }

// NavigateTo switches section and clears stale messages.
func (d *ClientDashboard) NavigateTo(section ClientSection) {
	d.section = section
	d.notices.Clear()
}

// Account returns the loaded account snapshot, nil before the first Load.
func (d *ClientDashboard) Account() *api.Account { return d.account }

// Transactions returns the cached transaction list.
func (d *ClientDashboard) Transactions() []api.Transaction { return d.transactions }

// Loading reports whether a load is in flight.
func (d *ClientDashboard) Loading() bool { return d.loading }

// Load fetches the profile and then the transaction list. A rejected
// credential on the profile call forces a logout; a transaction failure is
// tolerated and only logged, the profile alone still renders.
func (d *ClientDashboard) Load(ctx context.Context) error {
	if d.loading {
		return workflow.ErrOperationPending
	}
	d.loading = true
	defer func() { d.loading = false }()

	account, err := d.gateway.Profile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			d.session.Clear()
			return ErrSessionExpired
		}
		d.logger.Warn("profile load failed", slog.Any("error", err))
		return errors.New("unable to load your profile")
	}
	d.account = account

	transactions, err := d.gateway.Transactions(ctx)
	if err != nil {
		d.logger.Warn("transaction load failed", slog.Any("error", err))
		return nil
	}
	d.transactions = transactions
	return nil
}

// TotalExpenses sums the absolute value of all debits in the cached list.
func (d *ClientDashboard) TotalExpenses() float64 {
	var total float64
	for _, tx := range d.transactions {
		if tx.Amount < 0 {
			total += -tx.Amount
		}
	}
	return total
}

// TotalIncome sums all credits in the cached list.
func (d *ClientDashboard) TotalIncome() float64 {
	var total float64
	for _, tx := range d.transactions {
		if tx.Amount > 0 {
			total += tx.Amount
		}
	}
	return total
}

// Recent returns up to limit transactions, newest first. The cached list is
// left untouched.
func (d *ClientDashboard) Recent(limit int) []api.Transaction {
	recent := make([]api.Transaction, len(d.transactions))
	copy(recent, d.transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].At.After(recent[j].At)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// MaskedAccountNumber renders the account number with only the last four
// characters visible.
func (d *ClientDashboard) MaskedAccountNumber() string {
	if d.account == nil {
		return ""
	}
	number := d.account.Number
	if len(number) <= 4 {
		return number
	}
	return "•••• •••• •••• " + number[len(number)-4:]
}

// Transfer validates and dispatches a transfer through the workflow, then
// records the outcome as a notice. The cached balance is not touched; the
// caller refreshes via Load.
func (d *ClientDashboard) Transfer(ctx context.Context, req api.TransferRequest) error {
	msg, err := d.flow.Transfer(ctx, req)
	if err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	d.notices.SetSuccess(msg)
	return nil
}

// Recharge validates and dispatches a recharge through the workflow.
func (d *ClientDashboard) Recharge(ctx context.Context, amount float64) error {
	msg, err := d.flow.Recharge(ctx, amount)
	if err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	d.notices.SetSuccess(msg)
	return nil
}

// UpdateProfile saves the edited owner fields and echoes them into the
// loaded snapshot on success.
func (d *ClientDashboard) UpdateProfile(ctx context.Context, form ProfileForm) error {
	if err := checkForm(form); err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	msg, err := d.gateway.UpdateProfile(ctx, api.ProfileUpdateRequest{
		Name:    form.Name,
		Surname: form.Surname,
		Email:   form.Email,
		Phone:   form.Phone,
		Address: form.Address,
	})
	if err != nil {
		d.notices.SetError(messageOr(err, "unable to update the profile"))
		return err
	}
	if d.account != nil {
		d.account.Owner.Name = form.Name
		d.account.Owner.Surname = form.Surname
		d.account.Owner.Email = form.Email
		d.account.Owner.Phone = form.Phone
		d.account.Owner.Address = form.Address
	}
	if msg.Message == "" {
		msg.Message = "profile updated successfully"
	}
	d.notices.SetSuccess(msg.Message)
	return nil
}

// ChangePassword validates the old/new/confirm triple and submits the
// change.
func (d *ClientDashboard) ChangePassword(ctx context.Context, form PasswordForm) error {
	if err := checkForm(form); err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	msg, err := d.gateway.ChangePassword(ctx, form.Old, form.New)
	if err != nil {
		d.notices.SetError(messageOr(err, "unable to change the password, check the old one"))
		return err
	}
	if msg == "" {
		msg = "password changed successfully"
	}
	d.notices.SetSuccess(msg)
	return nil
}

// Close tears the surface down, cancelling pending notice timers.
func (d *ClientDashboard) Close() {
	d.notices.Close()
}

// messageOr prefers the server's message and falls back to a generic one.
func messageOr(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
