package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Amund211/ethwalletbot/internal/config"
)

// Canned explorer data for local development without an API key
type mockedExplorer struct{}

func (m *mockedExplorer) FetchTransactions(ctx context.Context, address string) (Response, error) {
	transactions := make([]map[string]string, 0, transactionPageSize)
	for i := range transactionPageSize {
		transactions = append(transactions, map[string]string{
			"blockNumber": fmt.Sprintf("%d", 1000000+i),
			"hash":        fmt.Sprintf("0x%064x", i+1),
			"from":        address,
			"to":          "0x0000000000000000000000000000000000000000",
			"value":       fmt.Sprintf("%d", (i+1)*1000000000000000),
			"isError":     "0",
		})
	}
	result, err := json.Marshal(transactions)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal mocked transactions: %w", err)
	}
	return Response{Status: "1", Message: "OK", Result: result}, nil
}

func (m *mockedExplorer) FetchBalance(ctx context.Context, address string) (Response, error) {
	return Response{Status: "1", Message: "OK", Result: json.RawMessage(`"1500000000000000000"`)}, nil
}

func NewEtherscanOrMock(conf config.Config, httpClient HttpClient) (Explorer, error) {
	if conf.EtherscanAPIKey() != "" {
		etherscan, err := NewEtherscan(
			httpClient,
			conf.EtherscanBaseURL(),
			conf.EtherscanChainID(),
			conf.EtherscanAPIKey(),
			time.Now,
			time.After,
		)
		if err != nil {
			return nil, err
		}
		return etherscan, nil
	}
	if conf.IsDevelopment() {
		return &mockedExplorer{}, nil
	}
	return nil, fmt.Errorf("Missing Etherscan API key in non-development environment")
}
