package app_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/app"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transactionList(n int) json.RawMessage {
	records := make([]string, 0, n)
	for i := range n {
		records = append(records, fmt.Sprintf(
			`{"blockNumber":"%d","hash":"0x%d","from":"0xabc","to":"0xdef","value":"%d","gas":"21000"}`,
			100+i, i, i*10,
		))
	}
	return json.RawMessage("[" + strings.Join(records, ",") + "]")
}

func TestBuildGetTransactions(t *testing.T) {
	t.Parallel()

	const userID domain.UserID = 42

	setup := func(t *testing.T, response explorer.Response, err error) (*mockWalletRepository, *mockExplorer, app.GetTransactions) {
		repo := newMockWalletRepository(t)
		repo.wallets[userID] = "0xabc"
		provider := &mockExplorer{
			t:               t,
			expectedAddress: "0xabc",
			response:        response,
			err:             err,
		}
		return repo, provider, app.BuildGetTransactions(repo, provider)
	}

	t.Run("at most five transactions with all fields", func(t *testing.T) {
		t.Parallel()

		_, provider, getTransactions := setup(t, explorer.Response{
			Status:  "1",
			Message: "OK",
			Result:  transactionList(10),
		}, nil)

		transactions, err := getTransactions(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, transactions, domain.TransactionDisplayLimit)
		require.Equal(t, 1, provider.transactionCalls)

		for i, transaction := range transactions {
			require.Equal(t, fmt.Sprintf("0x%d", i), transaction.Hash)
			require.JSONEq(
				t,
				fmt.Sprintf(`{"blockNumber":"%d","hash":"0x%d","from":"0xabc","to":"0xdef","value":"%d","gas":"21000"}`, 100+i, i, i*10),
				string(transaction.Raw),
			)
		}
	})

	t.Run("fewer than five", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{Status: "1", Result: transactionList(2)}, nil)

		transactions, err := getTransactions(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, transactions, 2)
	})

	t.Run("field order is preserved", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{
			Status: "1",
			Result: json.RawMessage(`[{"z":"1","hash":"0x1","a":"2"}]`),
		}, nil)

		transactions, err := getTransactions(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		require.Equal(t, `{"z":"1","hash":"0x1","a":"2"}`, string(transactions[0].Raw))
	})

	t.Run("wallet not set does not call explorer", func(t *testing.T) {
		t.Parallel()

		repo, provider, getTransactions := setup(t, explorer.Response{}, nil)
		delete(repo.wallets, userID)

		_, err := getTransactions(t.Context(), userID)
		require.ErrorIs(t, err, domain.ErrWalletNotSet)
		require.Equal(t, 0, provider.transactionCalls)
	})

	t.Run("status 0 is no data", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{
			Status:  "0",
			Message: "No transactions found",
			Result:  json.RawMessage(`[]`),
		}, nil)

		_, err := getTransactions(t.Context(), userID)
		require.ErrorIs(t, err, domain.ErrExplorerNoData)
	})

	t.Run("explorer error", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{}, assert.AnError)

		_, err := getTransactions(t.Context(), userID)
		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("temporarily unavailable", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{}, domain.ErrTemporarilyUnavailable)

		_, err := getTransactions(t.Context(), userID)
		require.ErrorIs(t, err, domain.ErrTemporarilyUnavailable)
	})

	t.Run("result is not a list", func(t *testing.T) {
		t.Parallel()

		_, _, getTransactions := setup(t, explorer.Response{
			Status: "1",
			Result: json.RawMessage(`"Max rate limit reached"`),
		}, nil)

		_, err := getTransactions(t.Context(), userID)
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrExplorerNoData)
	})
}
