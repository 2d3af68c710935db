package dashboard

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crestbank/crest-console/internal/api"
	"github.com/crestbank/crest-console/internal/session"
	"github.com/crestbank/crest-console/internal/workflow"
)

type mockCustomer struct {
	profileFn      func() (*api.Account, error)
	transactionsFn func() ([]api.Transaction, error)
	updateFn       func(req api.ProfileUpdateRequest) (api.Message, error)
	passwordFn     func(oldPassword, newPassword string) (string, error)
}

func (m *mockCustomer) Profile(context.Context) (*api.Account, error) { return m.profileFn() }
func (m *mockCustomer) Transactions(context.Context) ([]api.Transaction, error) {
	return m.transactionsFn()
}
func (m *mockCustomer) UpdateProfile(_ context.Context, req api.ProfileUpdateRequest) (api.Message, error) {
	return m.updateFn(req)
}
func (m *mockCustomer) ChangePassword(_ context.Context, oldPassword, newPassword string) (string, error) {
	return m.passwordFn(oldPassword, newPassword)
}

func (m *mockCustomer) Transfer(context.Context, api.TransferRequest) (string, error) {
	return "transfer done", nil
}
func (m *mockCustomer) Recharge(context.Context, float64) (string, error) {
	return "recharge done", nil
}

func fixtureTransactions() []api.Transaction {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []api.Transaction{
		{ID: 1, Amount: -1500, Type: api.TransactionTransfer, At: base},
		{ID: 2, Amount: 20000, Type: api.TransactionRecharge, At: base.Add(48 * time.Hour)},
		{ID: 3, Amount: -300, Type: api.TransactionTransfer, At: base.Add(24 * time.Hour)},
		{ID: 4, Amount: 500, Type: api.TransactionTransfer, At: base.Add(72 * time.Hour)},
	}
}

func newClientDashboard(gateway *mockCustomer) (*ClientDashboard, *session.Session) {
	sess := session.New()
	sess.Store("tok")
	flow := workflow.New(nil, gateway, nil)
	return NewClientDashboard(gateway, flow, sess, nil, 0), sess
}

func TestClientLoad(t *testing.T) {
	gateway := &mockCustomer{
		profileFn: func() (*api.Account, error) {
			return &api.Account{Number: "AC900", Balance: 42000}, nil
		},
		transactionsFn: func() ([]api.Transaction, error) { return fixtureTransactions(), nil },
	}
	d, _ := newClientDashboard(gateway)

	require.NoError(t, d.Load(context.Background()))
	require.Equal(t, "AC900", d.Account().Number)
	require.Len(t, d.Transactions(), 4)
	require.Equal(t, 1800.0, d.TotalExpenses())
	require.Equal(t, 20500.0, d.TotalIncome())
}

func TestClientLoadUnauthorizedForcesLogout(t *testing.T) {
	gateway := &mockCustomer{
		profileFn: func() (*api.Account, error) {
			return nil, &api.Error{Status: http.StatusUnauthorized}
		},
	}
	d, sess := newClientDashboard(gateway)

	err := d.Load(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	require.False(t, sess.IsAuthenticated(), "credential must be cleared")
}

func TestClientLoadToleratesTransactionFailure(t *testing.T) {
	gateway := &mockCustomer{
		profileFn: func() (*api.Account, error) {
			return &api.Account{Number: "AC900"}, nil
		},
		transactionsFn: func() ([]api.Transaction, error) {
			return nil, &api.Error{Status: http.StatusInternalServerError}
		},
	}
	d, _ := newClientDashboard(gateway)

	require.NoError(t, d.Load(context.Background()))
	require.NotNil(t, d.Account())
	require.Empty(t, d.Transactions())
}

func TestRecentSortsNewestFirst(t *testing.T) {
	gateway := &mockCustomer{
		profileFn:      func() (*api.Account, error) { return &api.Account{}, nil },
		transactionsFn: func() ([]api.Transaction, error) { return fixtureTransactions(), nil },
	}
	d, _ := newClientDashboard(gateway)
	require.NoError(t, d.Load(context.Background()))

	recent := d.Recent(2)
	require.Len(t, recent, 2)
	require.Equal(t, int64(4), recent[0].ID)
	require.Equal(t, int64(2), recent[1].ID)

	// Cached order is untouched.
	require.Equal(t, int64(1), d.Transactions()[0].ID)
}

func TestMaskedAccountNumber(t *testing.T) {
	gateway := &mockCustomer{
		profileFn:      func() (*api.Account, error) { return &api.Account{Number: "CM0012345678"}, nil },
		transactionsFn: func() ([]api.Transaction, error) { return nil, nil },
	}
	d, _ := newClientDashboard(gateway)
	require.NoError(t, d.Load(context.Background()))
	require.Equal(t, "•••• •••• •••• 5678", d.MaskedAccountNumber())
}

func TestTransferRecordsNotice(t *testing.T) {
	gateway := &mockCustomer{}
	d, _ := newClientDashboard(gateway)

	err := d.Transfer(context.Background(), api.TransferRequest{
		SourceAccount:      "AC1",
		DestinationAccount: "AC2",
		Amount:             100,
	})
	require.NoError(t, err)
	success, _ := d.Notices().Current()
	require.Equal(t, "transfer done", success)
}

func TestTransferValidationNotice(t *testing.T) {
	gateway := &mockCustomer{}
	d, _ := newClientDashboard(gateway)

	err := d.Transfer(context.Background(), api.TransferRequest{Amount: 100})
	require.Error(t, err)
	_, failure := d.Notices().Current()
	require.Equal(t, "account identifier required", failure)
}

func TestUpdateProfileEchoesLocally(t *testing.T) {
	gateway := &mockCustomer{
		profileFn: func() (*api.Account, error) {
			return &api.Account{Owner: api.Owner{Name: "Old", Email: "old@example.com"}}, nil
		},
		transactionsFn: func() ([]api.Transaction, error) { return nil, nil },
		updateFn: func(req api.ProfileUpdateRequest) (api.Message, error) {
			return api.Message{Message: "profile saved"}, nil
		},
	}
	d, _ := newClientDashboard(gateway)
	require.NoError(t, d.Load(context.Background()))

	form := ProfileForm{Name: "New", Surname: "Owner", Email: "new@example.com", Phone: "0600000000", Address: "12 rue Neuve"}
	require.NoError(t, d.UpdateProfile(context.Background(), form))
	require.Equal(t, "New", d.Account().Owner.Name)
	require.Equal(t, "new@example.com", d.Account().Owner.Email)
	success, _ := d.Notices().Current()
	require.Equal(t, "profile saved", success)
}

func TestUpdateProfileValidation(t *testing.T) {
	gateway := &mockCustomer{}
	d, _ := newClientDashboard(gateway)

	err := d.UpdateProfile(context.Background(), ProfileForm{Name: "X", Email: "not-an-email"})
	require.Error(t, err)
	_, failure := d.Notices().Current()
	require.Contains(t, failure, "email must be a valid email address")
}

func TestChangePasswordValidation(t *testing.T) {
	gateway := &mockCustomer{
		passwordFn: func(string, string) (string, error) { return "", nil },
	}
	d, _ := newClientDashboard(gateway)

	err := d.ChangePassword(context.Background(), PasswordForm{Old: "oldpass", New: "short", Confirm: "short"})
	require.Error(t, err)

	err = d.ChangePassword(context.Background(), PasswordForm{Old: "oldpass", New: "longenough", Confirm: "different1"})
	require.Error(t, err)
	_, failure := d.Notices().Current()
	require.Contains(t, failure, "passwords do not match")

	require.NoError(t, d.ChangePassword(context.Background(), PasswordForm{Old: "oldpass", New: "longenough", Confirm: "longenough"}))
	success, _ := d.Notices().Current()
	require.Equal(t, "password changed successfully", success)
}
