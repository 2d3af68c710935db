package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/crestbank/crest-console/internal/dashboard"
)

func (ui *UI) runAdmin(ctx context.Context) {
	dash := dashboard.NewAdminDashboard(ui.admin, ui.logger, ui.cfg.NoticeTTL)
	defer dash.Close()

	if !ui.reloadAdmin(ctx, dash) {
		return
	}

	for {
		ui.adminStats(dash)
		fmt.Fprintln(ui.out, "\n1) Accounts")
		fmt.Fprintln(ui.out, "2) Toggle account status")
		fmt.Fprintln(ui.out, "3) Users")
		fmt.Fprintln(ui.out, "4) Create a cashier")
		fmt.Fprintln(ui.out, "5) Refresh")
		fmt.Fprintln(ui.out, "0) Sign out")
		choice, ok := ui.prompt("> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			dash.NavigateTo(dashboard.SectionAccounts)
			ui.adminAccounts(dash)
		case "2":
			ui.adminToggle(ctx, dash)
		case "3":
			dash.NavigateTo(dashboard.SectionUsers)
			ui.adminUsers(dash)
		case "4":
			dash.NavigateTo(dashboard.SectionCreateCashier)
			ui.adminCreateCashier(ctx, dash)
		case "5":
			if !ui.reloadAdmin(ctx, dash) {
				return
			}
		case "0":
			return
		}
	}
}

func (ui *UI) reloadAdmin(ctx context.Context, dash *dashboard.AdminDashboard) bool {
	if err := dash.Load(ctx); err != nil {
		fmt.Fprintln(ui.out, err.Error())
		if errors.Is(err, dashboard.ErrSessionExpired) {
			ui.session.Clear()
			return false
		}
	}
	return true
}

func (ui *UI) adminStats(dash *dashboard.AdminDashboard) {
	stats := dash.Stats()
	fmt.Fprintln(ui.out, "\n--- Administration ---")
	fmt.Fprintf(ui.out, "Accounts: %d (%d active)  Total balance: %s\n",
		stats.TotalAccounts, stats.ActiveAccounts, Money(stats.TotalBalance, ""))
	fmt.Fprintf(ui.out, "Users: %d (%d clients, %d cashiers)\n",
		stats.TotalUsers, stats.Clients, stats.Cashiers)
}

func (ui *UI) adminAccounts(dash *dashboard.AdminDashboard) {
	query, _ := ui.prompt("Filter (blank for all): ")
	accounts := dash.FilterAccounts(query)
	if len(accounts) == 0 {
		fmt.Fprintln(ui.out, "no matching account")
		return
	}
	for _, account := range accounts {
		status := "active"
		if !account.Active {
			status = "deactivated"
		}
		fmt.Fprintf(ui.out, "%s  %-22s  %s  %s\n",
			account.Number, account.Owner.FullName(), Money(account.Balance, account.Currency), status)
	}
}

func (ui *UI) adminToggle(ctx context.Context, dash *dashboard.AdminDashboard) {
	number, _ := ui.prompt("Account number: ")
	if number == "" {
		return
	}
	_ = dash.ToggleAccountStatus(ctx, number)
	ui.showNotices(dash.Notices())
}

func (ui *UI) adminUsers(dash *dashboard.AdminDashboard) {
	query, _ := ui.prompt("Filter (blank for all): ")
	users := dash.FilterUsers(query)
	if len(users) == 0 {
		fmt.Fprintln(ui.out, "no matching user")
		return
	}
	for _, user := range users {
		status := "active"
		if !user.Active {
			status = "disabled"
		}
		fmt.Fprintf(ui.out, "%-15s  %-30s  %-13s  %s\n", user.Username, user.Email, user.Role, status)
	}
}

func (ui *UI) adminCreateCashier(ctx context.Context, dash *dashboard.AdminDashboard) {
	fmt.Fprintln(ui.out, "\n--- Create a cashier ---")
	var form dashboard.CashierForm
	form.Username, _ = ui.prompt("Username: ")
	form.Email, _ = ui.prompt("Email: ")
	form.Password, _ = ui.prompt("Password: ")
	_ = dash.CreateCashier(ctx, form)
	ui.showNotices(dash.Notices())
}
