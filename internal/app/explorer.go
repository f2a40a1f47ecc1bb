package app

import (
	"context"
	"time"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/domain"
)

const explorerTimeout = 10 * time.Second

type walletGetter interface {
	GetWallet(ctx context.Context, userID domain.UserID) (string, error)
}

type transactionFetcher interface {
	FetchTransactions(ctx context.Context, address string) (explorer.Response, error)
}

type balanceFetcher interface {
	FetchBalance(ctx context.Context, address string) (explorer.Response, error)
}

func withExplorerTimeout(ctx context.Context, fetch func(ctx context.Context) (explorer.Response, error)) (explorer.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, explorerTimeout)
	defer cancel()

	return fetch(ctx)
}
