package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/reporting"
)

// Store the trimmed address as the user's wallet and return it
type SetWallet func(ctx context.Context, userID domain.UserID, rawAddress string) (string, error)

type walletSetter interface {
	SetWallet(ctx context.Context, userID domain.UserID, address string) error
}

func BuildSetWallet(repo walletSetter) SetWallet {
	return func(ctx context.Context, userID domain.UserID, rawAddress string) (string, error) {
		address := strings.TrimSpace(rawAddress)
		if address == "" {
			return "", domain.ErrEmptyWalletAddress
		}

		err := repo.SetWallet(ctx, userID, address)
		if err != nil {
			err := fmt.Errorf("failed to set wallet: %w", err)
			reporting.Report(ctx, err)
			return "", err
		}

		return address, nil
	}
}
