package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/reporting"
)

// Get at most domain.TransactionDisplayLimit transactions for the user's wallet, oldest first
type GetTransactions func(ctx context.Context, userID domain.UserID) ([]domain.Transaction, error)

func BuildGetTransactions(repo walletGetter, provider transactionFetcher) GetTransactions {
	return func(ctx context.Context, userID domain.UserID) ([]domain.Transaction, error) {
		address, err := repo.GetWallet(ctx, userID)
		if err != nil {
			// NOTE: ErrWalletNotSet is an expected outcome and is passed through as is
			return nil, fmt.Errorf("failed to get wallet: %w", err)
		}

		response, err := withExplorerTimeout(ctx, func(ctx context.Context) (explorer.Response, error) {
			return provider.FetchTransactions(ctx, address)
		})
		if err != nil {
			// NOTE: Explorer implementations handle their own error reporting
			return nil, fmt.Errorf("failed to fetch transactions: %w", err)
		}

		if !response.OK() {
			logging.FromContext(ctx).InfoContext(ctx, "Explorer returned no transactions", "message", response.Message)
			return nil, fmt.Errorf("%w: %s", domain.ErrExplorerNoData, response.Message)
		}

		transactions, err := transactionsFromResult(response.Result, domain.TransactionDisplayLimit)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"result": string(response.Result),
			})
			return nil, err
		}

		return transactions, nil
	}
}

func transactionsFromResult(result json.RawMessage, limit int) ([]domain.Transaction, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("failed to decode transaction list: %w", err)
	}

	if len(records) > limit {
		records = records[:limit]
	}

	transactions := make([]domain.Transaction, 0, len(records))
	for i, record := range records {
		var fields struct {
			Hash string `json:"hash"`
		}
		if err := json.Unmarshal(record, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode transaction %d: %w", i, err)
		}

		transactions = append(transactions, domain.Transaction{
			Hash: fields.Hash,
			Raw:  record,
		})
	}

	return transactions, nil
}
