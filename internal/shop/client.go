// Package shop is the client facade: it owns the active view mode, routes
// user intents to the session, catalog, cart and checkout components, and
// fans session expiry out to every piece of dependent state. Presentation is
// an external collaborator that renders whatever state this package exposes.
package shop

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/internal/cartsync"
	"github.com/etec-programacion-3/electrotech-client/internal/catalog"
	"github.com/etec-programacion-3/electrotech-client/internal/checkout"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/cart"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/order"
	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
	"github.com/etec-programacion-3/electrotech-client/internal/history"
	"github.com/etec-programacion-3/electrotech-client/internal/session"
)

// View is the active screen the presenter should render.
type View string

const (
	ViewLogin   View = "login"
	ViewCatalog View = "catalog"
	ViewCart    View = "cart"
	ViewOrders  View = "orders"
	ViewAdmin   View = "admin"
)

// Client aggregates the client core behind intent methods and state getters.
type Client struct {
	session  *session.Manager
	gw       *gateway.Gateway
	engine   *catalog.Engine
	cart     *cartsync.Synchronizer
	history  *history.Log
	checkout *checkout.Machine
	lg       *zap.Logger

	mu     sync.Mutex
	view   View
	notify func()
}

// New wires the components together: session clears reset the engine, cart,
// history and view; catalog commits and checkout settlements notify the
// presenter.
func New(
	sess *session.Manager,
	gw *gateway.Gateway,
	engine *catalog.Engine,
	cartSync *cartsync.Synchronizer,
	hist *history.Log,
	mach *checkout.Machine,
	lg *zap.Logger,
) *Client {
	c := &Client{
		session:  sess,
		gw:       gw,
		engine:   engine,
		cart:     cartSync,
		history:  hist,
		checkout: mach,
		lg:       lg,
		view:     ViewLogin,
		notify:   func() {},
	}
	if _, ok := sess.Token(); ok {
		c.view = ViewCatalog
	}

	sess.OnClear(engine.Reset)
	sess.OnClear(cartSync.Reset)
	sess.OnClear(hist.Reset)
	sess.OnClear(func() {
		c.setView(ViewLogin)
		c.notify()
	})

	engine.OnChange(func() { c.notify() })
	mach.OnSuccess(func(order.Order) {
		c.setView(ViewOrders)
		c.notify()
	})

	return c
}

// OnChange sets the presenter's re-render callback. Set during wiring.
func (c *Client) OnChange(fn func()) { c.notify = fn }

// OnError sets the handler for asynchronous, non-authorization fetch
// failures surfaced by the catalog engine.
func (c *Client) OnError(fn func(error)) { c.engine.OnError(fn) }

// Start issues the initial refresh when a persisted session exists.
func (c *Client) Start() {
	if c.Authenticated() {
		c.engine.Refresh()
	}
}

// --- Session intents ---

// Authenticated reports whether a session token is held.
func (c *Client) Authenticated() bool {
	_, ok := c.session.Token()
	return ok
}

// Register creates a new account. The session is unchanged either way.
func (c *Client) Register(ctx context.Context, reg gateway.Registration) error {
	return c.gw.Register(ctx, reg)
}

// Login exchanges credentials for a token, persists it, and enters the
// catalog view with a fresh data load.
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.gw.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := c.session.SetToken(token); err != nil {
		c.lg.Warn("Persisting session token failed", zap.Error(err))
	}
	c.setView(ViewCatalog)
	c.engine.Refresh()
	c.notify()
	return nil
}

// Logout clears the session; the registered hooks reset all dependent state
// and return the view to login.
func (c *Client) Logout() {
	c.session.Clear()
}

// --- View ---

// View returns the active view mode.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetView switches the active screen. View changes participate in the
// refresh cadence so a stale session is detected promptly regardless of
// which screen the shopper lands on.
func (c *Client) SetView(v View) {
	if !c.Authenticated() {
		return
	}
	c.setView(v)
	c.engine.Refresh()
	c.notify()
}

func (c *Client) setView(v View) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
}

// --- Catalog intents (delegated to the engine) ---

func (c *Client) Search(term string)                     { c.engine.SetSearch(term) }
func (c *Client) SelectCategory(category string)         { c.engine.SetCategory(category) }
func (c *Client) SelectBrand(brand string)               { c.engine.SetBrand(brand) }
func (c *Client) SetPriceRange(min, max decimal.Decimal) { c.engine.SetPriceRange(min, max) }
func (c *Client) NextPage()                              { c.engine.NextPage() }
func (c *Client) PrevPage()                              { c.engine.PrevPage() }
func (c *Client) CanNext() bool                          { return c.engine.CanNext() }
func (c *Client) CanPrev() bool                          { return c.engine.CanPrev() }
func (c *Client) Filter() product.Filter                 { return c.engine.Filter() }
func (c *Client) Products() []product.Product            { return c.engine.Products() }
func (c *Client) TotalPages() int                        { return c.engine.TotalPages() }

// Product fetches a single product by ID for the detail view.
func (c *Client) Product(ctx context.Context, id int64) (product.Product, error) {
	return c.gw.GetProduct(ctx, id)
}

// --- Cart and orders ---

// Cart returns the last known server cart snapshot.
func (c *Client) Cart() cart.Cart { return c.cart.Cart() }

// Orders returns the last fetched order history.
func (c *Client) Orders() []order.Order { return c.history.Orders() }

// Order fetches a single order by ID. Requesting another shopper's order
// yields a *gateway.PrivilegeError.
func (c *Client) Order(ctx context.Context, id int64) (order.Order, error) {
	return c.gw.GetOrder(ctx, id)
}

// AddToCart sends an add intent; on success the returned snapshot becomes
// the new cart and the presenter is notified.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if err := c.cart.AddItem(ctx, productID, quantity); err != nil {
		return err
	}
	c.notify()
	return nil
}

// --- Checkout intents ---

// BeginCheckout starts a checkout, returning the total to confirm.
func (c *Client) BeginCheckout() (decimal.Decimal, error) {
	return c.checkout.Begin()
}

// ConfirmCheckout submits the pending checkout. On success the machine's
// settlement callback moves the view to order history.
func (c *Client) ConfirmCheckout(ctx context.Context) (order.Order, error) {
	return c.checkout.Confirm(ctx)
}

// DeclineCheckout abandons the pending checkout with no side effect.
func (c *Client) DeclineCheckout() error {
	return c.checkout.Decline()
}

// CheckoutState exposes the machine state for rendering.
func (c *Client) CheckoutState() checkout.State {
	return c.checkout.State()
}

// --- Admin ---

// CreateProduct validates the draft locally (required non-empty fields) and
// submits it through the privileged write path. On success the view returns
// to the catalog, which is re-fetched so the new product is visible through
// the normal query path.
func (c *Client) CreateProduct(ctx context.Context, draft product.Draft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if _, err := c.gw.CreateProduct(ctx, draft); err != nil {
		return err
	}
	c.setView(ViewCatalog)
	c.engine.Refresh()
	c.notify()
	return nil
}
