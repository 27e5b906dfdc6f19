package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bundler-sim/bundler_sim/internal/chain"
	"github.com/bundler-sim/bundler_sim/internal/chance"
	"github.com/bundler-sim/bundler_sim/internal/ledger"
)

const (
	// DefaultCount is used when a generate request names no count.
	DefaultCount = 5
	// MaxCount caps a single generate request.
	MaxCount = 100

	minInitialBalance = 0.01
	maxInitialBalance = 0.05
)

// Policy decides what happens when an unknown address is queried.
type Policy string

const (
	// PolicyPersist stores a random initial balance on first query.
	PolicyPersist Policy = "persist"
	// PolicyEphemeral reports a random balance without storing it.
	PolicyEphemeral Policy = "ephemeral"
)

// Service generates wallets and reports balances from the shared ledger.
type Service struct {
	repo      Repository
	ledger    ledger.Ledger
	generator chain.Generator
	jitter    chance.Jitter
	policy    Policy
	now       func() time.Time
}

// NewService builds a wallet service instance.
func NewService(repo Repository, ledger ledger.Ledger, generator chain.Generator, jitter chance.Jitter, policy Policy) (*Service, error) {
	switch policy {
	case "":
		policy = PolicyPersist
	case PolicyPersist, PolicyEphemeral:
	default:
		return nil, fmt.Errorf("unknown balance policy %q", policy)
	}
	if jitter == nil {
		jitter = chance.Random{}
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		generator: generator,
		jitter:    jitter,
		policy:    policy,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// ClampCount applies the default and the [1, MaxCount] bounds.
func ClampCount(count *int) int {
	if count == nil {
		return DefaultCount
	}
	return min(max(*count, 1), MaxCount)
}

// Generate creates count fresh addresses with a zero balance.
func (s *Service) Generate(ctx context.Context, count *int) ([]Wallet, error) {
	n := ClampCount(count)
	wallets := make([]Wallet, 0, n)
	for len(wallets) < n {
		w := Wallet{PublicKey: s.generator.Address(), CreatedAt: s.now()}
		if err := s.repo.Create(ctx, w); err != nil {
			if errors.Is(err, ErrWalletExists) {
				continue
			}
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// List returns the wallets generated so far.
func (s *Service) List(ctx context.Context) ([]Wallet, error) {
	return s.repo.List(ctx)
}

// Balances reports one balance per address, in input order. Unknown
// addresses get a random starting balance according to the policy.
func (s *Service) Balances(ctx context.Context, addresses []string) ([]Balance, error) {
	out := make([]Balance, 0, len(addresses))
	for _, addr := range addresses {
		amount, err := s.balance(ctx, addr)
		if err != nil {
			return nil, err
		}
		out = append(out, Balance{PublicKey: addr, Amount: amount, LastUpdated: s.now()})
	}
	return out, nil
}

func (s *Service) balance(ctx context.Context, addr string) (float64, error) {
	initial := s.jitter.FloatBetween(minInitialBalance, maxInitialBalance)
	if s.policy == PolicyPersist {
		return s.ledger.EnsureBalance(ctx, addr, initial)
	}
	amount, err := s.ledger.Balance(ctx, addr)
	if errors.Is(err, ledger.ErrUnknownWallet) {
		return initial, nil
	}
	return amount, err
}
