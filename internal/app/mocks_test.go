package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/stretchr/testify/require"
)

type mockWalletRepository struct {
	t *testing.T

	mutex   sync.Mutex
	wallets map[domain.UserID]string

	setWalletErr error
	getWalletErr error
}

func newMockWalletRepository(t *testing.T) *mockWalletRepository {
	return &mockWalletRepository{
		t:       t,
		wallets: make(map[domain.UserID]string),
	}
}

func (m *mockWalletRepository) SetWallet(ctx context.Context, userID domain.UserID, address string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.setWalletErr != nil {
		return m.setWalletErr
	}
	m.wallets[userID] = address
	return nil
}

func (m *mockWalletRepository) GetWallet(ctx context.Context, userID domain.UserID) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.getWalletErr != nil {
		return "", m.getWalletErr
	}
	address, ok := m.wallets[userID]
	if !ok {
		return "", domain.ErrWalletNotSet
	}
	return address, nil
}

type mockExplorer struct {
	t *testing.T

	expectedAddress string

	response explorer.Response
	err      error

	transactionCalls int
	balanceCalls     int
}

func (m *mockExplorer) FetchTransactions(ctx context.Context, address string) (explorer.Response, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedAddress, address)

	_, ok := ctx.Deadline()
	require.True(m.t, ok, "explorer calls should have a deadline")

	m.transactionCalls++
	return m.response, m.err
}

func (m *mockExplorer) FetchBalance(ctx context.Context, address string) (explorer.Response, error) {
	m.t.Helper()
	require.Equal(m.t, m.expectedAddress, address)

	_, ok := ctx.Deadline()
	require.True(m.t, ok, "explorer calls should have a deadline")

	m.balanceCalls++
	return m.response, m.err
}
