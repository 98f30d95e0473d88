// Package history holds the shopper's order history, replaced wholesale from
// server responses like the cart.
package history

import (
	"context"
	"sync"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/order"
)

// Store is the remote order surface the log needs.
type Store interface {
	Orders(ctx context.Context) ([]order.Order, error)
}

// Log holds the last fetched order history in the server's ordering.
type Log struct {
	store Store

	mu     sync.Mutex
	orders []order.Order
}

// New creates an empty Log.
func New(store Store) *Log {
	return &Log{store: store}
}

// Orders returns the last known history.
func (l *Log) Orders() []order.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orders
}

// Refresh re-fetches the history from the server.
func (l *Log) Refresh(ctx context.Context) error {
	orders, err := l.store.Orders(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.orders = orders
	l.mu.Unlock()
	return nil
}

// Reset drops the local history. Used when the session ends.
func (l *Log) Reset() {
	l.mu.Lock()
	l.orders = nil
	l.mu.Unlock()
}
