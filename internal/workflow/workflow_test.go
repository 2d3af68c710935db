package workflow

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crestbank/crest-console/internal/api"
)

type mockCounter struct {
	searchFn   func(query string) (*api.Account, error)
	depositFn  func(number string, amount float64) (api.Message, error)
	withdrawFn func(number string, amount float64) (api.Message, error)

	searchCalls   int
	depositCalls  int
	withdrawCalls int
}

func (m *mockCounter) SearchAccount(_ context.Context, query string) (*api.Account, error) {
	m.searchCalls++
	return m.searchFn(query)
}

func (m *mockCounter) Deposit(_ context.Context, number string, amount float64) (api.Message, error) {
	m.depositCalls++
	return m.depositFn(number, amount)
}

func (m *mockCounter) Withdraw(_ context.Context, number string, amount float64) (api.Message, error) {
	m.withdrawCalls++
	return m.withdrawFn(number, amount)
}

type mockRemit struct {
	transferFn func(req api.TransferRequest) (string, error)
	rechargeFn func(amount float64) (string, error)

	transferCalls int
	rechargeCalls int
}

func (m *mockRemit) Transfer(_ context.Context, req api.TransferRequest) (string, error) {
	m.transferCalls++
	return m.transferFn(req)
}

func (m *mockRemit) Recharge(_ context.Context, amount float64) (string, error) {
	m.rechargeCalls++
	return m.rechargeFn(amount)
}

func loadedWorkflow(t *testing.T, counter *mockCounter, balance float64) *Workflow {
	t.Helper()
	account := &api.Account{
		Number:  "AC100",
		Balance: balance,
		Active:  true,
		Owner:   api.Owner{Name: "Awa", Surname: "Diallo"},
	}
	counter.searchFn = func(string) (*api.Account, error) { return account, nil }
	w := New(counter, nil, nil)
	_, err := w.Search(context.Background(), "AC100")
	require.NoError(t, err)
	require.Equal(t, StateFound, w.State())
	return w
}

func TestSearchValidation(t *testing.T) {
	counter := &mockCounter{}
	w := New(counter, nil, nil)

	for _, query := range []string{"", "   ", "\t"} {
		_, err := w.Search(context.Background(), query)
		require.ErrorIs(t, err, ErrIdentifierRequired)
		require.True(t, IsLocal(err))
	}
	require.Zero(t, counter.searchCalls, "validation failures must not reach the server")
}

func TestSearchNotFound(t *testing.T) {
	counter := &mockCounter{
		searchFn: func(string) (*api.Account, error) {
			return nil, &api.Error{Status: http.StatusNotFound}
		},
	}
	w := New(counter, nil, nil)

	_, err := w.Search(context.Background(), "nobody@example.com")
	require.EqualError(t, err, "no account found with that identifier")
	require.True(t, api.IsNotFound(err), "cause must stay reachable")
	require.Nil(t, w.Account())
	require.Equal(t, StateNotFound, w.State())
}

func TestSearchGenericFailure(t *testing.T) {
	counter := &mockCounter{
		searchFn: func(string) (*api.Account, error) {
			return nil, &api.Error{Status: http.StatusInternalServerError}
		},
	}
	w := New(counter, nil, nil)

	_, err := w.Search(context.Background(), "AC100")
	require.EqualError(t, err, "error during search")
	require.Nil(t, w.Account())
}

func TestDepositWithdrawAmountValidation(t *testing.T) {
	for _, amount := range []float64{0, -1, -5000} {
		counter := &mockCounter{}
		w := loadedWorkflow(t, counter, 5000)

		_, err := w.Deposit(context.Background(), amount)
		require.ErrorIs(t, err, ErrAmountNotPositive)

		_, err = w.Withdraw(context.Background(), amount)
		require.ErrorIs(t, err, ErrAmountNotPositive)

		require.Zero(t, counter.depositCalls)
		require.Zero(t, counter.withdrawCalls)
	}
}

func TestOperationsRequireLoadedAccount(t *testing.T) {
	counter := &mockCounter{}
	w := New(counter, nil, nil)

	_, err := w.Deposit(context.Background(), 100)
	require.ErrorIs(t, err, ErrNoAccountSelected)

	_, err = w.Withdraw(context.Background(), 100)
	require.ErrorIs(t, err, ErrNoAccountSelected)

	require.Zero(t, counter.depositCalls)
	require.Zero(t, counter.withdrawCalls)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	counter := &mockCounter{}
	w := loadedWorkflow(t, counter, 5000)

	_, err := w.Withdraw(context.Background(), 7000)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.Zero(t, counter.withdrawCalls, "pre-check must not contact the server")
	require.Equal(t, 5000.0, w.Account().Balance)
}

func TestWithdrawLocalEcho(t *testing.T) {
	counter := &mockCounter{
		withdrawFn: func(number string, amount float64) (api.Message, error) {
			return api.Message{Message: "withdrawal recorded"}, nil
		},
	}
	w := loadedWorkflow(t, counter, 5000)
	w.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	msg, err := w.Withdraw(context.Background(), 3000)
	require.NoError(t, err)
	require.Equal(t, "withdrawal recorded", msg)
	require.Equal(t, 1, counter.withdrawCalls)
	require.Equal(t, 2000.0, w.Account().Balance)
	require.Equal(t, StateFound, w.State())

	history := w.History()
	require.Len(t, history, 1)
	require.Equal(t, OpWithdrawal, history[0].Kind)
	require.Equal(t, 3000.0, history[0].Amount)
	require.Equal(t, 2000.0, history[0].ResultingBalance)
	require.Equal(t, "AC100", history[0].AccountNumber)
	require.Equal(t, "Diallo Awa", history[0].HolderName)
}

func TestDepositLocalEcho(t *testing.T) {
	counter := &mockCounter{
		depositFn: func(number string, amount float64) (api.Message, error) {
			return api.Message{}, nil
		},
	}
	w := loadedWorkflow(t, counter, 5000)

	msg, err := w.Deposit(context.Background(), 1500)
	require.NoError(t, err)
	require.Equal(t, "deposit completed successfully", msg)
	require.Equal(t, 1, counter.depositCalls)
	require.Equal(t, 6500.0, w.Account().Balance)

	history := w.History()
	require.Len(t, history, 1)
	require.Equal(t, OpDeposit, history[0].Kind)
	require.Equal(t, 6500.0, history[0].ResultingBalance)
}

func TestHistoryNewestFirst(t *testing.T) {
	counter := &mockCounter{
		depositFn: func(string, float64) (api.Message, error) { return api.Message{}, nil },
	}
	w := loadedWorkflow(t, counter, 0)

	_, err := w.Deposit(context.Background(), 100)
	require.NoError(t, err)
	_, err = w.Deposit(context.Background(), 200)
	require.NoError(t, err)

	history := w.History()
	require.Len(t, history, 2)
	require.Equal(t, 200.0, history[0].Amount)
	require.Equal(t, 100.0, history[1].Amount)
}

func TestDepositFailureKeepsBalanceAndHistory(t *testing.T) {
	counter := &mockCounter{
		depositFn: func(string, float64) (api.Message, error) {
			return api.Message{}, &api.Error{Status: http.StatusForbidden, Message: "account is deactivated"}
		},
	}
	w := loadedWorkflow(t, counter, 5000)
	require.NoError(t, w.SelectOperation(OpDeposit))

	_, err := w.Deposit(context.Background(), 1000)
	require.EqualError(t, err, "account is deactivated")
	require.Equal(t, 5000.0, w.Account().Balance)
	require.Empty(t, w.History())
	require.Equal(t, StateOperationSelected, w.State())
}

func TestWithdrawFailureFallbackMessage(t *testing.T) {
	counter := &mockCounter{
		withdrawFn: func(string, float64) (api.Message, error) {
			return api.Message{}, &api.Error{Status: http.StatusInternalServerError}
		},
	}
	w := loadedWorkflow(t, counter, 5000)

	_, err := w.Withdraw(context.Background(), 100)
	require.EqualError(t, err, "error during withdrawal")
}

func TestDoubleSubmitRejected(t *testing.T) {
	var w *Workflow
	counter := &mockCounter{
		depositFn: func(string, float64) (api.Message, error) {
			// A second submit while the first is in flight.
			_, err := w.Deposit(context.Background(), 50)
			require.ErrorIs(t, err, ErrOperationPending)
			return api.Message{}, nil
		},
	}
	w = loadedWorkflow(t, counter, 0)

	_, err := w.Deposit(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, 1, counter.depositCalls)
}

func TestTransferValidation(t *testing.T) {
	remit := &mockRemit{}
	w := New(nil, remit, nil)

	tests := []struct {
		name string
		req  api.TransferRequest
		want error
	}{
		{"missing source", api.TransferRequest{DestinationAccount: "AC2", Amount: 10}, ErrAccountRequired},
		{"missing destination", api.TransferRequest{SourceAccount: "AC1", Amount: 10}, ErrAccountRequired},
		{"zero amount", api.TransferRequest{SourceAccount: "AC1", DestinationAccount: "AC2"}, ErrAmountNotPositive},
		{"negative amount", api.TransferRequest{SourceAccount: "AC1", DestinationAccount: "AC2", Amount: -3}, ErrAmountNotPositive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Transfer(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
	require.Zero(t, remit.transferCalls)
}

func TestTransferSuccess(t *testing.T) {
	remit := &mockRemit{
		transferFn: func(req api.TransferRequest) (string, error) {
			require.Equal(t, "AC1", req.SourceAccount)
			require.Equal(t, "AC2", req.DestinationAccount)
			return "transfer executed", nil
		},
	}
	w := New(nil, remit, nil)

	msg, err := w.Transfer(context.Background(), api.TransferRequest{
		SourceAccount:      "AC1",
		DestinationAccount: "AC2",
		Amount:             2500,
		Note:               "rent",
	})
	require.NoError(t, err)
	require.Equal(t, "transfer executed", msg)
	require.Equal(t, 1, remit.transferCalls)
}

func TestRecharge(t *testing.T) {
	remit := &mockRemit{
		rechargeFn: func(amount float64) (string, error) { return "", nil },
	}
	w := New(nil, remit, nil)

	_, err := w.Recharge(context.Background(), 0)
	require.ErrorIs(t, err, ErrAmountNotPositive)
	require.Zero(t, remit.rechargeCalls)

	msg, err := w.Recharge(context.Background(), 20000)
	require.NoError(t, err)
	require.Equal(t, "recharge completed successfully", msg)
	require.Equal(t, 1, remit.rechargeCalls)
}

func TestMissingGateway(t *testing.T) {
	w := New(nil, nil, nil)

	_, err := w.Search(context.Background(), "AC100")
	require.ErrorIs(t, err, ErrNotSupported)

	_, err = w.Transfer(context.Background(), api.TransferRequest{SourceAccount: "a", DestinationAccount: "b", Amount: 1})
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestResetClearsWorkingSet(t *testing.T) {
	counter := &mockCounter{}
	w := loadedWorkflow(t, counter, 5000)

	w.Reset()
	require.Nil(t, w.Account())
	require.Equal(t, StateIdle, w.State())

	_, err := w.Deposit(context.Background(), 100)
	require.ErrorIs(t, err, ErrNoAccountSelected)
}
