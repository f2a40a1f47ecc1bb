package walletrepository

import (
	"context"

	"github.com/Amund211/ethwalletbot/internal/domain"
)

type WalletRepository interface {
	// Store the wallet address for the user, replacing any previous address
	SetWallet(ctx context.Context, userID domain.UserID, address string) error

	// Raises domain.ErrWalletNotSet if the user has not set a wallet
	GetWallet(ctx context.Context, userID domain.UserID) (string, error)
}
