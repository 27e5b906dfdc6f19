package wallet

import (
	"context"
	"errors"
	"sync"
)

// ErrWalletExists is returned when a generated address collides with one
// already recorded.
var ErrWalletExists = errors.New("wallet exists")

// ErrWalletNotFound is returned for an address that was never generated here.
var ErrWalletNotFound = errors.New("wallet not found")

// Repository records the wallets generated by this process.
type Repository interface {
	Create(ctx context.Context, wallet Wallet) error
	Get(ctx context.Context, publicKey string) (Wallet, error)
	List(ctx context.Context) ([]Wallet, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	order   []string
	storage map[string]Wallet
}

// NewMemoryRepository constructs an in-memory wallet registry.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Wallet)}
}

func (r *memoryRepository) Create(_ context.Context, wallet Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[wallet.PublicKey]; exists {
		return ErrWalletExists
	}
	r.storage[wallet.PublicKey] = wallet
	r.order = append(r.order, wallet.PublicKey)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, publicKey string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wallet, ok := r.storage[publicKey]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return wallet, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Wallet, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.storage[key])
	}
	return out, nil
}
