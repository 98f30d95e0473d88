// Package checkout drives the purchase transaction from intent through
// confirmation, submission, and settlement.
//
// The machine moves Idle → Confirming → Submitting and settles back to Idle
// after surfacing the outcome; settled states are transient, so a new
// checkout intent is always accepted once the previous one has resolved.
package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/cart"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/order"
)

// State is the machine's current position in the checkout flow.
type State int

const (
	// Idle means no checkout is in progress.
	Idle State = iota
	// Confirming means a total has been computed and awaits the shopper's
	// explicit confirmation.
	Confirming
	// Submitting means the order-creation call is in flight.
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Sentinel errors for checkout intents.
var (
	// ErrEmptyCart rejects a checkout intent on an empty cart. No network
	// call is made in that case.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotConfirming rejects Confirm/Decline outside the Confirming state.
	ErrNotConfirming = errors.New("no checkout awaiting confirmation")
)

// CartSource supplies the current cart snapshot and re-fetches it after
// settlement.
type CartSource interface {
	Cart() cart.Cart
	Refresh(ctx context.Context) error
}

// Placer creates an order from the server-side cart.
type Placer interface {
	PlaceOrder(ctx context.Context) (order.Order, error)
}

// Refresher re-fetches the order history after a successful settlement.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Machine is the checkout state machine.
type Machine struct {
	placer  Placer
	cart    CartSource
	history Refresher
	lg      *zap.Logger

	// onSuccess fires after a successful settlement, once cart and history
	// have been re-synchronized. The presenter uses it to switch to the
	// order history view.
	onSuccess func(order.Order)

	mu    sync.Mutex
	state State
}

// New creates an idle Machine.
func New(placer Placer, cartSrc CartSource, history Refresher, lg *zap.Logger) *Machine {
	return &Machine{
		placer:    placer,
		cart:      cartSrc,
		history:   history,
		lg:        lg,
		onSuccess: func(order.Order) {},
	}
}

// OnSuccess sets the settlement callback. Set during wiring.
func (m *Machine) OnSuccess(fn func(order.Order)) { m.onSuccess = fn }

// State returns the machine's current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin handles a checkout intent. With a non-empty cart it moves to
// Confirming and returns the computed total for display; with an empty cart
// it stays Idle and returns ErrEmptyCart without touching the network.
func (m *Machine) Begin() (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return decimal.Zero, errors.Errorf("checkout already %s", m.state)
	}
	c := m.cart.Cart()
	if c.Empty() {
		return decimal.Zero, ErrEmptyCart
	}
	m.state = Confirming
	return c.Total(), nil
}

// Decline abandons the pending checkout with no side effect.
func (m *Machine) Decline() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Confirming {
		return ErrNotConfirming
	}
	m.state = Idle
	return nil
}

// Confirm submits the order. On success the cart and order history are
// re-synchronized from the server (the fresh cart is expected to be empty,
// confirming server-side consumption) and the success callback fires. On
// failure both are left as last known and the reason is returned. Either way
// the machine re-arms to Idle.
func (m *Machine) Confirm(ctx context.Context) (order.Order, error) {
	m.mu.Lock()
	if m.state != Confirming {
		m.mu.Unlock()
		return order.Order{}, ErrNotConfirming
	}
	m.state = Submitting
	m.mu.Unlock()

	o, err := m.placer.PlaceOrder(ctx)

	m.mu.Lock()
	m.state = Idle
	m.mu.Unlock()

	if err != nil {
		return order.Order{}, err
	}

	// Settled successfully: pull the consumed cart and the updated history.
	// The order already exists server-side, so a refresh failure is logged
	// rather than turned into a checkout failure.
	if rerr := m.cart.Refresh(ctx); rerr != nil {
		m.lg.Warn("Cart refresh after checkout failed", zap.Error(rerr))
	}
	if rerr := m.history.Refresh(ctx); rerr != nil {
		m.lg.Warn("Order history refresh after checkout failed", zap.Error(rerr))
	}
	m.onSuccess(o)
	return o, nil
}
