// Package cartsync keeps the local cart view consistent with the server.
// The server is the sole source of truth: every mutation round-trips and the
// returned snapshot replaces the local value wholesale. No optimistic local
// increments, so local and remote quantities can never drift.
package cartsync

import (
	"context"
	"sync"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/cart"
)

// Store is the remote cart surface the synchronizer needs.
type Store interface {
	Cart(ctx context.Context) (cart.Cart, error)
	AddItem(ctx context.Context, productID int64, quantity int) (cart.Cart, error)
}

// Synchronizer holds the latest server cart snapshot.
type Synchronizer struct {
	store Store

	mu      sync.Mutex
	current cart.Cart
}

// New creates a Synchronizer with an empty cart.
func New(store Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// Cart returns the last known snapshot.
func (s *Synchronizer) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// AddItem sends an add intent and replaces the local cart with the server's
// response. On failure (insufficient stock, expired session, network) the
// prior snapshot is left untouched and the error is returned for display.
func (s *Synchronizer) AddItem(ctx context.Context, productID int64, quantity int) error {
	c, err := s.store.AddItem(ctx, productID, quantity)
	if err != nil {
		return err
	}
	s.replace(c)
	return nil
}

// Refresh re-fetches the snapshot from the server.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	c, err := s.store.Cart(ctx)
	if err != nil {
		return err
	}
	s.replace(c)
	return nil
}

// Reset drops the local snapshot. Used when the session ends.
func (s *Synchronizer) Reset() {
	s.replace(cart.Cart{})
}

func (s *Synchronizer) replace(c cart.Cart) {
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}
