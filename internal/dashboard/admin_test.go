package dashboard

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crestbank/crest-console/internal/api"
)

type mockAdmin struct {
	accountsFn  func() ([]api.Account, error)
	usersFn     func() ([]api.User, error)
	setStatusFn func(number string, active bool) (api.Message, error)
	cashierFn   func(req api.CreateCashierRequest) (api.Message, error)

	setStatusCalls int
}

func (m *mockAdmin) Accounts(context.Context) ([]api.Account, error) { return m.accountsFn() }
func (m *mockAdmin) Users(context.Context) ([]api.User, error)       { return m.usersFn() }
func (m *mockAdmin) SetAccountStatus(_ context.Context, number string, active bool) (api.Message, error) {
	m.setStatusCalls++
	return m.setStatusFn(number, active)
}
func (m *mockAdmin) CreateCashier(_ context.Context, req api.CreateCashierRequest) (api.Message, error) {
	return m.cashierFn(req)
}

func fixtureAccounts() []api.Account {
	return []api.Account{
		{Number: "AC100", Balance: 5000, Active: true, Owner: api.Owner{Name: "Awa", Surname: "Diallo", Email: "awa@example.com"}},
		{Number: "AC200", Balance: 12000, Active: false, Owner: api.Owner{Name: "Marc", Surname: "Ndiaye", Email: "marc@example.com"}},
		{Number: "AC300", Balance: 700, Active: true, Owner: api.Owner{Name: "Lea", Surname: "Sarr", Email: "lea@example.com"}},
	}
}

func fixtureUsers() []api.User {
	return []api.User{
		{ID: 1, Username: "awa", Email: "awa@example.com", Role: api.RoleClient, Active: true},
		{ID: 2, Username: "marc", Email: "marc@example.com", Role: api.RoleClient, Active: true},
		{ID: 3, Username: "guichet1", Email: "guichet1@crest.example", Role: api.RoleCashier, Active: true},
		{ID: 4, Username: "root", Email: "root@crest.example", Role: api.RoleAdmin, Active: true},
	}
}

func loadedAdmin(t *testing.T, gateway *mockAdmin) *AdminDashboard {
	t.Helper()
	if gateway.accountsFn == nil {
		gateway.accountsFn = func() ([]api.Account, error) { return fixtureAccounts(), nil }
	}
	if gateway.usersFn == nil {
		gateway.usersFn = func() ([]api.User, error) { return fixtureUsers(), nil }
	}
	d := NewAdminDashboard(gateway, nil, 0)
	require.NoError(t, d.Load(context.Background()))
	return d
}

func TestAdminLoadComputesStats(t *testing.T) {
	d := loadedAdmin(t, &mockAdmin{})

	stats := d.Stats()
	require.Equal(t, 3, stats.TotalAccounts)
	require.Equal(t, 2, stats.ActiveAccounts)
	require.Equal(t, 17700.0, stats.TotalBalance)
	require.Equal(t, 4, stats.TotalUsers)
	require.Equal(t, 2, stats.Clients)
	require.Equal(t, 1, stats.Cashiers)
}

func TestAdminLoadFailure(t *testing.T) {
	gateway := &mockAdmin{
		accountsFn: func() ([]api.Account, error) {
			return nil, &api.Error{Status: http.StatusInternalServerError}
		},
		usersFn: func() ([]api.User, error) { return fixtureUsers(), nil },
	}
	d := NewAdminDashboard(gateway, nil, 0)
	require.EqualError(t, d.Load(context.Background()), "unable to load bank data")
}

func TestAdminLoadUnauthorized(t *testing.T) {
	gateway := &mockAdmin{
		accountsFn: func() ([]api.Account, error) {
			return nil, &api.Error{Status: http.StatusUnauthorized}
		},
		usersFn: func() ([]api.User, error) { return fixtureUsers(), nil },
	}
	d := NewAdminDashboard(gateway, nil, 0)
	require.ErrorIs(t, d.Load(context.Background()), ErrSessionExpired)
}

func TestFilterAccounts(t *testing.T) {
	d := loadedAdmin(t, &mockAdmin{})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"AC100", "AC200", "AC300"}},
		{"ac2", []string{"AC200"}},
		{"DIALLO", []string{"AC100"}},
		{"example.com", []string{"AC100", "AC200", "AC300"}},
		{"lea", []string{"AC300"}},
		{"missing", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, account := range d.FilterAccounts(tt.query) {
			got = append(got, account.Number)
		}
		require.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestFilterUsers(t *testing.T) {
	d := loadedAdmin(t, &mockAdmin{})

	require.Len(t, d.FilterUsers("guichet"), 1)
	require.Len(t, d.FilterUsers("EXAMPLE.COM"), 2)
	require.Len(t, d.FilterUsers(""), 4)
	require.Empty(t, d.FilterUsers("nobody"))
}

func TestToggleAccountStatus(t *testing.T) {
	gateway := &mockAdmin{
		setStatusFn: func(number string, active bool) (api.Message, error) {
			require.Equal(t, "AC100", number)
			require.False(t, active, "active account toggles to inactive")
			return api.Message{Message: "status updated"}, nil
		},
	}
	d := loadedAdmin(t, gateway)

	require.NoError(t, d.ToggleAccountStatus(context.Background(), "AC100"))
	require.Equal(t, 1, gateway.setStatusCalls)
	require.False(t, d.Accounts()[0].Active)
	require.Equal(t, 1, d.Stats().ActiveAccounts)
	success, _ := d.Notices().Current()
	require.Equal(t, "status updated", success)
}

func TestToggleAccountStatusUnknownAccount(t *testing.T) {
	gateway := &mockAdmin{}
	d := loadedAdmin(t, gateway)

	require.Error(t, d.ToggleAccountStatus(context.Background(), "AC999"))
	require.Zero(t, gateway.setStatusCalls)
}

func TestToggleAccountStatusRemoteFailure(t *testing.T) {
	gateway := &mockAdmin{
		setStatusFn: func(string, bool) (api.Message, error) {
			return api.Message{}, &api.Error{Status: http.StatusConflict, Message: "account has pending operations"}
		},
	}
	d := loadedAdmin(t, gateway)

	require.Error(t, d.ToggleAccountStatus(context.Background(), "AC100"))
	require.True(t, d.Accounts()[0].Active, "no local echo on failure")
	_, failure := d.Notices().Current()
	require.Equal(t, "account has pending operations", failure)
}

func TestCreateCashier(t *testing.T) {
	created := false
	gateway := &mockAdmin{
		cashierFn: func(req api.CreateCashierRequest) (api.Message, error) {
			created = true
			require.Equal(t, "guichet2", req.Username)
			return api.Message{Message: "cashier ready"}, nil
		},
	}
	d := loadedAdmin(t, gateway)
	gateway.usersFn = func() ([]api.User, error) {
		return append(fixtureUsers(), api.User{ID: 5, Username: "guichet2", Role: api.RoleCashier}), nil
	}

	form := CashierForm{Username: "guichet2", Email: "guichet2@crest.example", Password: "s3cret99"}
	require.NoError(t, d.CreateCashier(context.Background(), form))
	require.True(t, created)
	require.Len(t, d.Users(), 5)
	require.Equal(t, 2, d.Stats().Cashiers)
}

func TestCreateCashierValidation(t *testing.T) {
	gateway := &mockAdmin{
		cashierFn: func(api.CreateCashierRequest) (api.Message, error) {
			t.Fatal("gateway must not be called on validation failure")
			return api.Message{}, nil
		},
	}
	d := loadedAdmin(t, gateway)

	err := d.CreateCashier(context.Background(), CashierForm{Username: "x", Email: "bad", Password: "123"})
	require.Error(t, err)
}
