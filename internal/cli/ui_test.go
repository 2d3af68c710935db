package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/app"
	"github.com/crestbank/crest-console/internal/mockbank"
	"github.com/crestbank/crest-console/internal/session"
)

// runScript drives a full UI session against an embedded mock bank and
// returns everything printed to the terminal.
func runScript(t *testing.T, script string) string {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bank := mockbank.NewServer(logger, mockbank.NewStore(), mockbank.NewTokenRegistry(rdb, "test-secret", time.Hour))
	ts := httptest.NewServer(bank.Handler())
	t.Cleanup(ts.Close)

	cfg := &app.Config{
		APIBaseURL:  ts.URL + "/api",
		NoticeTTL:   time.Minute,
		RecentLimit: 5,
	}
	sess := session.New()
	client := api.NewClient(cfg.APIBaseURL, sess, nil)

	var out bytes.Buffer
	ui := New(strings.NewReader(script), &out, logger, cfg, sess,
		api.NewAuthClient(client, sess),
		api.NewCustomerClient(client),
		api.NewTellerClient(client),
		api.NewAdminClient(client))
	require.NoError(t, ui.Run(context.Background()))
	return out.String()
}

func TestTellerSession(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"1",        // sign in
		"guichet1", // username
		"guichetpass",
		"1",    // search account
		"awa",  // query
		"2",    // deposit
		"1500", // amount
		"4",    // session history
		"0",    // sign out
		"0",    // quit
	}, "\n")+"\n")

	require.Contains(t, out, "Welcome, guichet1.")
	require.Contains(t, out, "Diallo Awa")
	require.Contains(t, out, "deposit recorded")
	require.Contains(t, out, "DEPOSIT")
	require.Contains(t, out, "Signed out.")
}

func TestClientSession(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"1", // sign in
		"awa",
		"awapass123",
		"1", // overview
		"2", // transactions
		"0", // sign out
		"0", // quit
	}, "\n")+"\n")

	require.Contains(t, out, "Welcome, awa.")
	require.Contains(t, out, "Holder:   Diallo Awa")
	require.Contains(t, out, "Balance:")
	require.Contains(t, out, "•••• •••• ••••")
	require.Contains(t, out, "RECHARGE")
}

func TestAdminSession(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"1", // sign in
		"root",
		"rootpass",
		"3", // users
		"",  // no filter
		"4", // create cashier
		"guichet2",
		"guichet2@crest.example",
		"guichetpass2",
		"0", // sign out
		"0", // quit
	}, "\n")+"\n")

	require.Contains(t, out, "Welcome, root.")
	require.Contains(t, out, "Accounts: 2 (2 active)")
	require.Contains(t, out, "ROLE_CLIENT")
	require.Contains(t, out, "cashier created successfully")
}

func TestLoginFailure(t *testing.T) {
	out := runScript(t, strings.Join([]string{
		"1",
		"awa",
		"wrong",
		"0",
	}, "\n")+"\n")

	require.Contains(t, out, "invalid username or password")
	require.NotContains(t, out, "Welcome")
}
