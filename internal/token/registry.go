// Package token deploys simulated tokens and keeps them for later lookup.
package token

import (
	"context"
	"errors"
	"sync"

	"github.com/bundler-sim/bundler_sim/internal/simulator"
)

// ErrNotFound is returned for an unknown token id.
var ErrNotFound = errors.New("token not found")

// Registry stores created tokens for the lifetime of the process.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tokens map[string]simulator.Token
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]simulator.Token)}
}

// Put stores t under its id.
func (r *Registry) Put(t simulator.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.tokens[t.ID] = t
}

// Get returns the token with the given id.
func (r *Registry) Get(id string) (simulator.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[id]
	if !ok {
		return simulator.Token{}, ErrNotFound
	}
	return t, nil
}

// List returns every token in creation order.
func (r *Registry) List() []simulator.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]simulator.Token, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tokens[id])
	}
	return out
}

// Len returns the number of stored tokens.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// Creator deploys tokens.
type Creator interface {
	CreateToken(ctx context.Context, req simulator.TokenRequest) (simulator.Token, error)
}

// Service deploys tokens through the engine and records the successful ones.
type Service struct {
	creator  Creator
	registry *Registry
}

// NewService wires a token service.
func NewService(creator Creator, registry *Registry) *Service {
	return &Service{creator: creator, registry: registry}
}

// Create deploys a token and stores it on success.
func (s *Service) Create(ctx context.Context, req simulator.TokenRequest) (simulator.Token, error) {
	t, err := s.creator.CreateToken(ctx, req)
	if err != nil {
		return simulator.Token{}, err
	}
	s.registry.Put(t)
	return t, nil
}

// Get looks a token up by id.
func (s *Service) Get(id string) (simulator.Token, error) {
	return s.registry.Get(id)
}

// List returns every created token.
func (s *Service) List() []simulator.Token {
	return s.registry.List()
}
