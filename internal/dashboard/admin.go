package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/workflow"
)

// AdminSection enumerates the admin dashboard's sections.
type AdminSection int

const (
	SectionAccounts AdminSection = iota
	SectionUsers
	SectionCreateCashier
)

// AdminGateway is the remote surface the admin dashboard drives.
// *api.AdminClient satisfies it.
type AdminGateway interface {
	Accounts(ctx context.Context) ([]api.Account, error)
	Users(ctx context.Context) ([]api.User, error)
	SetAccountStatus(ctx context.Context, accountNumber string, active bool) (api.Message, error)
	CreateCashier(ctx context.Context, req api.CreateCashierRequest) (api.Message, error)
}

// Stats are the display aggregates recomputed in full after every load or
// local echo.
type Stats struct {
	TotalAccounts  int
	ActiveAccounts int
	TotalBalance   float64
	TotalUsers     int
	Clients        int
	Cashiers       int
}

// AdminDashboard owns the bank-wide account and user lists, their filters
// and the derived stats.
type AdminDashboard struct {
	gateway AdminGateway
	logger  *slog.Logger
	notices *Notices
	section AdminSection
	loading bool

	accounts []api.Account
	users    []api.User
	stats    Stats
}

// NewAdminDashboard builds the admin surface.
func NewAdminDashboard(gateway AdminGateway, logger *slog.Logger, noticeTTL time.Duration) *AdminDashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminDashboard{
		gateway: gateway,
		logger:  logger,
		notices: NewNotices(noticeTTL),
	}
}

// Notices exposes the surface's transient messages.
func (d *AdminDashboard) Notices() *Notices { return d.notices }

// Section returns the active section.
func (d *AdminDashboard) Section() AdminSection { return d.section }

// NavigateTo switches section and clears stale messages.
func (d *AdminDashboard) NavigateTo(section AdminSection) {
	d.section = section
	d.notices.Clear()
}

// Accounts returns the cached account list.
func (d *AdminDashboard) Accounts() []api.Account { return d.accounts }

// Users returns the cached user list.
func (d *AdminDashboard) Users() []api.User { return d.users }

// Stats returns the current display aggregates.
func (d *AdminDashboard) Stats() Stats { return d.stats }

// Load refreshes both lists. The two fetches are independent reads and run
// concurrently; either failure aborts the refresh.
func (d *AdminDashboard) Load(ctx context.Context) error {
	if d.loading {
		return workflow.ErrOperationPending
	}
	d.loading = true
	defer func() { d.loading = false }()

	var (
		accounts []api.Account
		users    []api.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = d.gateway.Accounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = d.gateway.Users(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if api.IsUnauthorized(err) {
			return ErrSessionExpired
		}
		d.logger.Warn("admin data load failed", slog.Any("error", err))
		return errors.New("unable to load bank data")
	}

	d.accounts = accounts
	d.users = users
	d.recomputeStats()
	return nil
}

func (d *AdminDashboard) recomputeStats() {
	stats := Stats{
		TotalAccounts: len(d.accounts),
		TotalUsers:    len(d.users),
	}
	for _, account := range d.accounts {
		if account.Active {
			stats.ActiveAccounts++
		}
		stats.TotalBalance += account.Balance
	}
	for _, user := range d.users {
		switch user.Role {
		case api.RoleClient:
			stats.Clients++
		case api.RoleCashier:
			stats.Cashiers++
		}
	}
	d.stats = stats
}

// FilterAccounts returns the accounts whose number, owner name or owner
// email contains query, case-insensitively. An empty query returns the full
// list.
func (d *AdminDashboard) FilterAccounts(query string) []api.Account {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return d.accounts
	}
	var matched []api.Account
	for _, account := range d.accounts {
		if containsFold(account.Number, query) ||
			containsFold(account.Owner.Name, query) ||
			containsFold(account.Owner.Surname, query) ||
			containsFold(account.Owner.Email, query) {
			matched = append(matched, account)
		}
	}
	return matched
}

// FilterUsers returns the users whose username, email or name contains
// query, case-insensitively.
func (d *AdminDashboard) FilterUsers(query string) []api.User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return d.users
	}
	var matched []api.User
	for _, user := range d.users {
		if containsFold(user.Username, query) ||
			containsFold(user.Email, query) ||
			containsFold(user.Name, query) ||
			containsFold(user.Surname, query) {
			matched = append(matched, user)
		}
	}
	return matched
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}

// ToggleAccountStatus flips the active flag of the given account. On success
// the flag is echoed into the cached list and the stats recomputed.
func (d *AdminDashboard) ToggleAccountStatus(ctx context.Context, accountNumber string) error {
	idx := -1
	for i, account := range d.accounts {
		if account.Number == accountNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		err := errors.New("unknown account " + accountNumber)
		d.notices.SetError(err.Error())
		return err
	}

	next := !d.accounts[idx].Active
	msg, err := d.gateway.SetAccountStatus(ctx, accountNumber, next)
	if err != nil {
		d.notices.SetError(messageOr(err, "unable to change the account status"))
		return err
	}

	d.accounts[idx].Active = next
	d.recomputeStats()
	if msg.Message == "" {
		if next {
			msg.Message = "account activated"
		} else {
			msg.Message = "account deactivated"
		}
	}
	d.notices.SetSuccess(msg.Message)
	return nil
}

// CreateCashier validates the form, provisions the teller login and
// refreshes the user list.
func (d *AdminDashboard) CreateCashier(ctx context.Context, form CashierForm) error {
	if err := checkForm(form); err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	msg, err := d.gateway.CreateCashier(ctx, api.CreateCashierRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		d.notices.SetError(messageOr(err, "unable to create the cashier"))
		return err
	}

	users, err := d.gateway.Users(ctx)
	if err != nil {
		d.logger.Warn("user list refresh failed", slog.Any("error", err))
	} else {
		d.users = users
		d.recomputeStats()
	}

	if msg.Message == "" {
		msg.Message = "cashier created successfully"
	}
	d.notices.SetSuccess(msg.Message)
	return nil
}

// Close tears the surface down, cancelling pending notice timers.
func (d *AdminDashboard) Close() {
	d.notices.Close()
}
