package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/dashboard"
	"github.com/crestbank/crest-console/internal/workflow"
)

func (ui *UI) runClient(ctx context.Context) {
	flow := workflow.New(nil, ui.customer, ui.logger)
	dash := dashboard.NewClientDashboard(ui.customer, flow, ui.session, ui.logger, ui.cfg.NoticeTTL)
	defer dash.Close()

	if !ui.reloadClient(ctx, dash) {
		return
	}

	for {
		fmt.Fprintln(ui.out, "\n--- My bank ---")
		fmt.Fprintln(ui.out, "1) Overview")
		fmt.Fprintln(ui.out, "2) Transactions")
		fmt.Fprintln(ui.out, "3) Transfer")
		fmt.Fprintln(ui.out, "4) Recharge")
		fmt.Fprintln(ui.out, "5) Edit profile")
		fmt.Fprintln(ui.out, "6) Change password")
		fmt.Fprintln(ui.out, "0) Sign out")
		choice, ok := ui.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			dash.NavigateTo(dashboard.SectionOverview)
			ui.clientOverview(dash)
		case "2":
			dash.NavigateTo(dashboard.SectionTransactions)
			ui.clientTransactions(dash)
		case "3":
			dash.NavigateTo(dashboard.SectionTransfer)
			if !ui.clientTransfer(ctx, dash) {
				return
			}
		case "4":
			dash.NavigateTo(dashboard.SectionRecharge)
			if !ui.clientRecharge(ctx, dash) {
				return
			}
		case "5":
			dash.NavigateTo(dashboard.SectionProfile)
			ui.clientProfile(ctx, dash)
		case "6":
			ui.clientPassword(ctx, dash)
		case "0":
			return
		}
	}
}

// reloadClient refreshes the dashboard and reports whether the session is
// still usable.
func (ui *UI) reloadClient(ctx context.Context, dash *dashboard.ClientDashboard) bool {
	if err := dash.Load(ctx); err != nil {
		fmt.Fprintln(ui.out, err.Error())
		return !errors.Is(err, dashboard.ErrSessionExpired)
	}
	return true
}

func (ui *UI) clientOverview(dash *dashboard.ClientDashboard) {
	account := dash.Account()
	if account == nil {
		fmt.Fprintln(ui.out, "no account loaded")
		return
	}
	fmt.Fprintf(ui.out, "\nAccount %s (%s)\n", ui.maskedOrFull(dash), account.Type)
	fmt.Fprintf(ui.out, "Holder:   %s\n", account.Owner.FullName())
	fmt.Fprintf(ui.out, "Balance:  %s\n", Money(account.Balance, account.Currency))
	fmt.Fprintf(ui.out, "Income:   %s\n", Money(dash.TotalIncome(), account.Currency))
	fmt.Fprintf(ui.out, "Expenses: %s\n", Money(dash.TotalExpenses(), account.Currency))

	recent := dash.Recent(ui.cfg.RecentLimit)
	if len(recent) > 0 {
		fmt.Fprintln(ui.out, "Recent activity:")
		for _, tx := range recent {
			ui.printTransaction(tx, account.Currency)
		}
	}
}

func (ui *UI) maskedOrFull(dash *dashboard.ClientDashboard) string {
	if masked := dash.MaskedAccountNumber(); masked != "" {
		return masked
	}
	return "-"
}

func (ui *UI) clientTransactions(dash *dashboard.ClientDashboard) {
	transactions := dash.Recent(0)
	if len(transactions) == 0 {
		fmt.Fprintln(ui.out, "no transactions yet")
		return
	}
	currency := ""
	if account := dash.Account(); account != nil {
		currency = account.Currency
	}
	fmt.Fprintln(ui.out, "\nDate               Type       Amount")
	for _, tx := range transactions {
		ui.printTransaction(tx, currency)
	}
}

func (ui *UI) printTransaction(tx api.Transaction, currency string) {
	fmt.Fprintf(ui.out, "%s  %-9s  %s\n", tx.At.Format(time.DateTime), tx.Type, Money(tx.Amount, currency))
	if tx.Note != "" {
		fmt.Fprintf(ui.out, "    %s\n", tx.Note)
	}
}

func (ui *UI) clientTransfer(ctx context.Context, dash *dashboard.ClientDashboard) bool {
	account := dash.Account()
	if account == nil {
		fmt.Fprintln(ui.out, "no account loaded")
		return true
	}
	fmt.Fprintln(ui.out, "\n--- Transfer ---")
	destination, _ := ui.prompt("Destination account: ")
	amount, ok := ui.promptAmount("Amount: ")
	if !ok {
		return true
	}
	note, _ := ui.prompt("Note (optional): ")

	err := dash.Transfer(ctx, api.TransferRequest{
		SourceAccount:      account.Number,
		DestinationAccount: destination,
		Amount:             amount,
		Note:               note,
	})
	ui.showNotices(dash.Notices())
	if err != nil {
		return true
	}
	return ui.reloadClient(ctx, dash)
}

func (ui *UI) clientRecharge(ctx context.Context, dash *dashboard.ClientDashboard) bool {
	fmt.Fprintln(ui.out, "\n--- Recharge ---")
	fmt.Fprintln(ui.out, "Suggested amounts:")
	for i, amount := range dashboard.QuickRechargeAmounts {
		fmt.Fprintf(ui.out, "  %d) %s\n", i+1, Money(amount, ""))
	}
	raw, ok := ui.prompt("Pick a suggestion or type an amount: ")
	if !ok || raw == "" {
		return true
	}

	amount := 0.0
	if idx, err := parseIndex(raw, len(dashboard.QuickRechargeAmounts)); err == nil {
		amount = dashboard.QuickRechargeAmounts[idx]
	} else {
		parsed, ok := parseAmount(raw)
		if !ok {
			fmt.Fprintln(ui.out, "amount must be a number")
			return true
		}
		amount = parsed
	}

	err := dash.Recharge(ctx, amount)
	ui.showNotices(dash.Notices())
	if err != nil {
		return true
	}
	return ui.reloadClient(ctx, dash)
}

func (ui *UI) clientProfile(ctx context.Context, dash *dashboard.ClientDashboard) {
	account := dash.Account()
	if account == nil {
		fmt.Fprintln(ui.out, "no account loaded")
		return
	}
	fmt.Fprintln(ui.out, "\n--- Edit profile (blank keeps the current value) ---")
	form := dashboard.ProfileForm{
		Name:    ui.promptDefault("First name", account.Owner.Name),
		Surname: ui.promptDefault("Last name", account.Owner.Surname),
		Email:   ui.promptDefault("Email", account.Owner.Email),
		Phone:   ui.promptDefault("Phone", account.Owner.Phone),
		Address: ui.promptDefault("Address", account.Owner.Address),
	}
	_ = dash.UpdateProfile(ctx, form)
	ui.showNotices(dash.Notices())
}

func (ui *UI) clientPassword(ctx context.Context, dash *dashboard.ClientDashboard) {
	fmt.Fprintln(ui.out, "\n--- Change password ---")
	var form dashboard.PasswordForm
	form.Old, _ = ui.prompt("Current password: ")
	form.New, _ = ui.prompt("New password: ")
	form.Confirm, _ = ui.prompt("Confirm new password: ")
	_ = dash.ChangePassword(ctx, form)
	ui.showNotices(dash.Notices())
}

func (ui *UI) promptDefault(label, current string) string {
	value, _ := ui.prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if value == "" {
		return current
	}
	return value
}
