// Package cli renders the console surfaces as terminal menu loops. Every
// loop draws from a dashboard; the package holds no banking state of its own.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/app"
	"github.com/crestbank/crest-console/internal/dashboard"
	"github.com/crestbank/crest-console/internal/session"
)

// UI drives the terminal front-end: the entry menu, then the role-specific
// loop picked from the login response.
type UI struct {
	in      *bufio.Reader
	out     io.Writer
	logger  *slog.Logger
	cfg     *app.Config
	session *session.Session

	auth     *api.AuthClient
	customer *api.CustomerClient
	teller   *api.TellerClient
	admin    *api.AdminClient
}

// New wires the UI around the shared session and the gateway facades.
func New(in io.Reader, out io.Writer, logger *slog.Logger, cfg *app.Config, sess *session.Session,
	auth *api.AuthClient, customer *api.CustomerClient, teller *api.TellerClient, admin *api.AdminClient) *UI {
	if logger == nil {
		logger = slog.Default()
	}
	return &UI{
		in:       bufio.NewReader(in),
		out:      out,
		logger:   logger,
		cfg:      cfg,
		session:  sess,
		auth:     auth,
		customer: customer,
		teller:   teller,
		admin:    admin,
	}
}

// Run loops on the entry menu until the user exits or input ends.
func (ui *UI) Run(ctx context.Context) error {
	fmt.Fprintln(ui.out, "Crest Bank console")
	for {
		fmt.Fprintln(ui.out, "\n1) Sign in")
		fmt.Fprintln(ui.out, "2) Create an account")
		fmt.Fprintln(ui.out, "0) Quit")
		choice, ok := ui.prompt("> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			if err := ui.login(ctx); err != nil {
				return err
			}
		case "2":
			ui.register(ctx)
		case "0":
			return nil
		}
	}
}

func (ui *UI) login(ctx context.Context) error {
	fmt.Fprintln(ui.out, "\n--- Sign in ---")
	identifier, _ := ui.prompt("Username or email: ")
	password, _ := ui.prompt("Password: ")

	form := dashboard.LoginForm{Identifier: identifier, Password: password}
	if err := dashboard.Check(form); err != nil {
		fmt.Fprintln(ui.out, err.Error())
		return nil
	}

	resp, err := ui.auth.Login(ctx, identifier, password)
	if err != nil {
		fmt.Fprintln(ui.out, loginFailureMessage(err))
		return nil
	}

	surface, err := dashboard.ResolveLanding(resp.Roles)
	if err != nil {
		ui.logger.Warn("login rejected", slog.String("username", resp.Username), slog.Any("error", err))
		ui.auth.Logout()
		fmt.Fprintln(ui.out, "this login has no dashboard assigned, contact the bank")
		return nil
	}

	fmt.Fprintf(ui.out, "Welcome, %s.\n", resp.Username)
	switch surface {
	case dashboard.SurfaceTeller:
		ui.runTeller(ctx)
	case dashboard.SurfaceAdmin:
		ui.runAdmin(ctx)
	default:
		ui.runClient(ctx)
	}
	ui.auth.Logout()
	fmt.Fprintln(ui.out, "Signed out.")
	return nil
}

func loginFailureMessage(err error) string {
	if api.IsUnauthorized(err) {
		return "invalid username or password"
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "unable to reach the bank, try again later"
}

func (ui *UI) register(ctx context.Context) {
	fmt.Fprintln(ui.out, "\n--- Create an account ---")
	var form dashboard.RegistrationForm
	form.Username, _ = ui.prompt("Username: ")
	form.Password, _ = ui.prompt("Password: ")
	form.Email, _ = ui.prompt("Email: ")
	form.Name, _ = ui.prompt("First name: ")
	form.Surname, _ = ui.prompt("Last name: ")
	form.Address, _ = ui.prompt("Address: ")
	form.Phone, _ = ui.prompt("Phone: ")

	if err := dashboard.Check(form); err != nil {
		fmt.Fprintln(ui.out, err.Error())
		return
	}

	msg, err := ui.auth.Register(ctx, api.RegistrationRequest{
		Username: form.Username,
		Password: form.Password,
		Email:    form.Email,
		Name:     form.Name,
		Surname:  form.Surname,
		Address:  form.Address,
		Phone:    form.Phone,
	})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintln(ui.out, apiErr.Message)
			return
		}
		fmt.Fprintln(ui.out, "registration failed, try again later")
		return
	}
	if msg == "" {
		msg = "registration successful, you can now sign in"
	}
	fmt.Fprintln(ui.out, msg)
}

// prompt prints the label and reads one trimmed line. ok is false when the
// input stream ended.
func (ui *UI) prompt(label string) (string, bool) {
	fmt.Fprint(ui.out, label)
	line, err := ui.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

// promptAmount reads an amount; comma decimals are accepted. The workflow
// owns the positivity rule, the prompt only parses.
func (ui *UI) promptAmount(label string) (float64, bool) {
	raw, ok := ui.prompt(label)
	if !ok || raw == "" {
		return 0, false
	}
	amount, ok := parseAmount(raw)
	if !ok {
		fmt.Fprintln(ui.out, "amount must be a number")
		return 0, false
	}
	return amount, true
}

func parseAmount(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := strconv.ParseFloat(raw, 64)
	return amount, err == nil
}

// parseIndex reads a 1-based menu index and returns it 0-based.
func parseIndex(raw string, count int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if idx < 1 || idx > count {
		return 0, errors.New("choice out of range")
	}
	return idx - 1, nil
}

// showNotices renders a surface's transient messages, if any.
func (ui *UI) showNotices(notices *dashboard.Notices) {
	success, failure := notices.Current()
	if success != "" {
		fmt.Fprintln(ui.out, "OK:", success)
	}
	if failure != "" {
		fmt.Fprintln(ui.out, "!!", failure)
	}
}
