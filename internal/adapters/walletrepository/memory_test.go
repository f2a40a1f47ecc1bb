package walletrepository_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Amund211/ethwalletbot/internal/adapters/walletrepository"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	t.Run("get unset wallet", func(t *testing.T) {
		t.Parallel()

		repo := walletrepository.NewMemory()

		address, err := repo.GetWallet(t.Context(), 1234)
		require.ErrorIs(t, err, domain.ErrWalletNotSet)
		require.Empty(t, address)
	})

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()

		repo := walletrepository.NewMemory()

		require.NoError(t, repo.SetWallet(t.Context(), 1234, "0xABC"))

		address, err := repo.GetWallet(t.Context(), 1234)
		require.NoError(t, err)
		require.Equal(t, "0xABC", address)
	})

	t.Run("set overwrites", func(t *testing.T) {
		t.Parallel()

		repo := walletrepository.NewMemory()

		require.NoError(t, repo.SetWallet(t.Context(), 1234, "0xABC"))
		require.NoError(t, repo.SetWallet(t.Context(), 1234, "0xDEF"))

		address, err := repo.GetWallet(t.Context(), 1234)
		require.NoError(t, err)
		require.Equal(t, "0xDEF", address)
	})

	t.Run("users are independent", func(t *testing.T) {
		t.Parallel()

		repo := walletrepository.NewMemory()

		require.NoError(t, repo.SetWallet(t.Context(), 1, "0x1"))
		require.NoError(t, repo.SetWallet(t.Context(), 2, "0x2"))

		address, err := repo.GetWallet(t.Context(), 1)
		require.NoError(t, err)
		require.Equal(t, "0x1", address)

		address, err = repo.GetWallet(t.Context(), 2)
		require.NoError(t, err)
		require.Equal(t, "0x2", address)

		_, err = repo.GetWallet(t.Context(), 3)
		require.ErrorIs(t, err, domain.ErrWalletNotSet)
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		repo := walletrepository.NewMemory()

		var wg sync.WaitGroup
		for i := range 100 {
			userID := domain.UserID(i)
			wg.Go(func() {
				address := fmt.Sprintf("0x%d", i)
				require.NoError(t, repo.SetWallet(t.Context(), userID, address))

				stored, err := repo.GetWallet(t.Context(), userID)
				require.NoError(t, err)
				require.Equal(t, address, stored)
			})
		}
		wg.Wait()
	})
}
