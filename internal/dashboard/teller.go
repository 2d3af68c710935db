package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/workflow"
)

// TellerDashboard hosts the counter workflow and the session-local operation
// history view. It adds nothing to the workflow's rules beyond notice
// handling.
type TellerDashboard struct {
	flow    *workflow.Workflow
	logger  *slog.Logger
	notices *Notices
}

// NewTellerDashboard builds the teller surface around flow.
func NewTellerDashboard(flow *workflow.Workflow, logger *slog.Logger, noticeTTL time.Duration) *TellerDashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &TellerDashboard{
		flow:    flow,
		logger:  logger,
		notices: NewNotices(noticeTTL),
	}
}

// Notices exposes the surface's transient messages.
func (d *TellerDashboard) Notices() *Notices { return d.notices }

// State returns the workflow state driving the rendered section.
func (d *TellerDashboard) State() workflow.State { return d.flow.State() }

// Account returns the loaded account snapshot.
func (d *TellerDashboard) Account() *api.Account { return d.flow.Account() }

// History returns the operations performed this session, newest first.
func (d *TellerDashboard) History() []workflow.HistoryEntry { return d.flow.History() }

// Search looks an account up and loads it into the working set.
func (d *TellerDashboard) Search(ctx context.Context, query string) error {
	d.notices.Clear()
	if _, err := d.flow.Search(ctx, query); err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	return nil
}

// SelectOperation opens the deposit or withdrawal form.
func (d *TellerDashboard) SelectOperation(kind workflow.OperationKind) error {
	d.notices.Clear()
	return d.flow.SelectOperation(kind)
}

// Deposit runs a counter deposit on the loaded account.
func (d *TellerDashboard) Deposit(ctx context.Context, amount float64) error {
	msg, err := d.flow.Deposit(ctx, amount)
	if err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	d.notices.SetSuccess(msg)
	return nil
}

// Withdraw runs a counter withdrawal on the loaded account.
func (d *TellerDashboard) Withdraw(ctx context.Context, amount float64) error {
	msg, err := d.flow.Withdraw(ctx, amount)
	if err != nil {
		d.notices.SetError(err.Error())
		return err
	}
	d.notices.SetSuccess(msg)
	return nil
}

// NewSearch discards the loaded account and returns to the search form.
func (d *TellerDashboard) NewSearch() {
	d.flow.Reset()
	d.notices.Clear()
}

// Close tears the surface down, cancelling pending notice timers.
func (d *TellerDashboard) Close() {
	d.notices.Close()
}
