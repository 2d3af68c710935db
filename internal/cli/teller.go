package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/crestbank/crest-console/internal/dashboard"
	"github.com/crestbank/crest-console/internal/workflow"
)

func (ui *UI) runTeller(ctx context.Context) {
	flow := workflow.New(ui.teller, nil, ui.logger)
	dash := dashboard.NewTellerDashboard(flow, ui.logger, ui.cfg.NoticeTTL)
	defer dash.Close()

	for {
		ui.tellerStatus(dash)
		fmt.Fprintln(ui.out, "\n1) Search account")
		fmt.Fprintln(ui.out, "2) Deposit")
		fmt.Fprintln(ui.out, "3) Withdraw")
		fmt.Fprintln(ui.out, "4) Session history")
		fmt.Fprintln(ui.out, "5) New search")
		fmt.Fprintln(ui.out, "0) Sign out")
		choice, ok := ui.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			ui.tellerSearch(ctx, dash)
		case "2":
			ui.tellerOperation(ctx, dash, workflow.OpDeposit)
		case "3":
			ui.tellerOperation(ctx, dash, workflow.OpWithdrawal)
		case "4":
			ui.tellerHistory(dash)
		case "5":
			dash.NewSearch()
		case "0":
			return
		}
	}
}

// tellerStatus draws the loaded account, if any, above the menu.
func (ui *UI) tellerStatus(dash *dashboard.TellerDashboard) {
	fmt.Fprintln(ui.out, "\n--- Counter ---")
	switch dash.State() {
	case workflow.StateNotFound:
		fmt.Fprintln(ui.out, "No account found with that identifier.")
	case workflow.StateFound, workflow.StateOperationSelected:
		account := dash.Account()
		fmt.Fprintf(ui.out, "Account %s  %s  %s", account.Number, account.Owner.FullName(), Money(account.Balance, account.Currency))
		if !account.Active {
			fmt.Fprint(ui.out, "  [DEACTIVATED]")
		}
		fmt.Fprintln(ui.out)
	}
}

func (ui *UI) tellerSearch(ctx context.Context, dash *dashboard.TellerDashboard) {
	query, _ := ui.prompt("Account number, email or username: ")
	_ = dash.Search(ctx, query)
	ui.showNotices(dash.Notices())
}

func (ui *UI) tellerOperation(ctx context.Context, dash *dashboard.TellerDashboard, kind workflow.OperationKind) {
	if err := dash.SelectOperation(kind); err != nil {
		fmt.Fprintln(ui.out, err.Error())
		return
	}
	label := "Deposit amount: "
	if kind == workflow.OpWithdrawal {
		label = "Withdrawal amount: "
	}
	amount, ok := ui.promptAmount(label)
	if !ok {
		return
	}
	if kind == workflow.OpDeposit {
		_ = dash.Deposit(ctx, amount)
	} else {
		_ = dash.Withdraw(ctx, amount)
	}
	ui.showNotices(dash.Notices())
}

func (ui *UI) tellerHistory(dash *dashboard.TellerDashboard) {
	history := dash.History()
	if len(history) == 0 {
		fmt.Fprintln(ui.out, "no operations this session")
		return
	}
	fmt.Fprintln(ui.out, "Operations this session, newest first:")
	for _, entry := range history {
		fmt.Fprintf(ui.out, "%s  %-10s  %s  %s (%s)  balance %s\n",
			entry.At.Format(time.DateTime), entry.Kind, Money(entry.Amount, ""),
			entry.HolderName, entry.AccountNumber, Money(entry.ResultingBalance, ""))
	}
}
