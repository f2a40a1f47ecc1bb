package conversationstate

import (
	"context"
	"time"

	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/jellydator/ttlcache/v3"
)

// Only non-idle conversations are stored. A pending capture expires after the ttl.
type ttlStore struct {
	cache *ttlcache.Cache[domain.Conversation, domain.ConversationState]
}

// Call the returned function to stop the cleanup goroutine
func NewTTLStore(ttl time.Duration) (*ttlStore, func()) {
	cache := ttlcache.New[domain.Conversation, domain.ConversationState](
		ttlcache.WithTTL[domain.Conversation, domain.ConversationState](ttl),
		ttlcache.WithDisableTouchOnHit[domain.Conversation, domain.ConversationState](),
	)
	go cache.Start()
	return &ttlStore{cache: cache}, cache.Stop
}

func (s *ttlStore) State(ctx context.Context, conversation domain.Conversation) domain.ConversationState {
	item := s.cache.Get(conversation)
	if item == nil {
		return domain.ConversationIdle
	}
	return item.Value()
}

func (s *ttlStore) AwaitWalletAddress(ctx context.Context, conversation domain.Conversation) {
	s.cache.Set(conversation, domain.ConversationAwaitingWalletAddress, ttlcache.DefaultTTL)
}

func (s *ttlStore) TakeWalletAddressCapture(ctx context.Context, conversation domain.Conversation) bool {
	item, ok := s.cache.GetAndDelete(conversation)
	if !ok || item == nil {
		return false
	}
	return item.Value() == domain.ConversationAwaitingWalletAddress
}

var _ Store = (*ttlStore)(nil)
