package conversationstate

import (
	"context"

	"github.com/Amund211/ethwalletbot/internal/domain"
)

type Store interface {
	State(ctx context.Context, conversation domain.Conversation) domain.ConversationState

	// Mark the conversation as waiting for a wallet address
	AwaitWalletAddress(ctx context.Context, conversation domain.Conversation)

	// Atomically move an awaiting conversation back to idle.
	// Returns false if the conversation was not awaiting a wallet address.
	TakeWalletAddressCapture(ctx context.Context, conversation domain.Conversation) bool
}
