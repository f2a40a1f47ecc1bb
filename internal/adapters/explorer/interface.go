package explorer

import (
	"context"
	"encoding/json"
)

// Etherscan style response envelope
type Response struct {
	// "1" on success
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (r Response) OK() bool {
	return r.Status == "1"
}

type Explorer interface {
	// List the first page (10 entries) of transactions for the address, oldest first
	//
	// A response with a status other than "1" is not an error
	FetchTransactions(ctx context.Context, address string) (Response, error)

	// Get the balance in wei at the latest block
	//
	// A response with a status other than "1" is not an error
	FetchBalance(ctx context.Context, address string) (Response, error)
}
