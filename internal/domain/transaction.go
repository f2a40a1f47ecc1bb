package domain

import "encoding/json"

// The number of transactions shown to the user per request
const TransactionDisplayLimit = 5

type Transaction struct {
	Hash string
	// Raw is the full explorer record, with the field order given by the explorer
	Raw json.RawMessage
}
