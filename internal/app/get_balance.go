package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/reporting"
)

type GetBalance func(ctx context.Context, userID domain.UserID) (domain.Balance, error)

func BuildGetBalance(repo walletGetter, provider balanceFetcher) GetBalance {
	return func(ctx context.Context, userID domain.UserID) (domain.Balance, error) {
		address, err := repo.GetWallet(ctx, userID)
		if err != nil {
			return domain.Balance{}, fmt.Errorf("failed to get wallet: %w", err)
		}

		response, err := withExplorerTimeout(ctx, func(ctx context.Context) (explorer.Response, error) {
			return provider.FetchBalance(ctx, address)
		})
		if err != nil {
			return domain.Balance{}, fmt.Errorf("failed to fetch balance: %w", err)
		}

		if !response.OK() {
			logging.FromContext(ctx).InfoContext(ctx, "Explorer returned no balance", "message", response.Message)
			return domain.Balance{}, fmt.Errorf("%w: %s", domain.ErrExplorerNoData, response.Message)
		}

		wei, err := weiFromResult(response.Result)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"result": string(response.Result),
			})
			return domain.Balance{}, err
		}

		return domain.Balance{Address: address, Wei: wei}, nil
	}
}

func weiFromResult(result json.RawMessage) (*big.Int, error) {
	var raw string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode balance: %w", err)
	}

	return domain.ParseWei(raw)
}
