package domain

import "errors"

var (
	ErrWalletNotSet           = errors.New("wallet not set")
	ErrEmptyWalletAddress     = errors.New("empty wallet address")
	ErrExplorerNoData         = errors.New("explorer returned no data")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
)
