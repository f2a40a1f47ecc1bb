package domain

import "fmt"

type ConversationState int

const (
	ConversationIdle ConversationState = iota
	ConversationAwaitingWalletAddress
)

func (s ConversationState) String() string {
	switch s {
	case ConversationIdle:
		return "idle"
	case ConversationAwaitingWalletAddress:
		return "awaiting_wallet_address"
	default:
		return fmt.Sprintf("<invalid conversation state>(%d)", int(s))
	}
}
