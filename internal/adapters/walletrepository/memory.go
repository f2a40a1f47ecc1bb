package walletrepository

import (
	"context"
	"sync"

	"github.com/Amund211/ethwalletbot/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Process-lifetime wallet registry. Nothing survives a restart.
type Memory struct {
	wallets map[domain.UserID]string
	mutex   sync.RWMutex
	tracer  trace.Tracer
}

func NewMemory() *Memory {
	return &Memory{
		wallets: make(map[domain.UserID]string),
		tracer:  otel.Tracer("ethwalletbot/walletrepository/memory"),
	}
}

func (m *Memory) SetWallet(ctx context.Context, userID domain.UserID, address string) error {
	_, span := m.tracer.Start(ctx, "Memory.SetWallet")
	defer span.End()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.wallets[userID] = address
	return nil
}

func (m *Memory) GetWallet(ctx context.Context, userID domain.UserID) (string, error) {
	_, span := m.tracer.Start(ctx, "Memory.GetWallet")
	defer span.End()

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	address, ok := m.wallets[userID]
	if !ok {
		return "", domain.ErrWalletNotSet
	}
	return address, nil
}

var _ WalletRepository = (*Memory)(nil)
