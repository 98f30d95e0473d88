package app

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/internal/cartsync"
	"github.com/etec-programacion-3/electrotech-client/internal/catalog"
	"github.com/etec-programacion-3/electrotech-client/internal/checkout"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
	"github.com/etec-programacion-3/electrotech-client/internal/history"
	"github.com/etec-programacion-3/electrotech-client/internal/session"
	"github.com/etec-programacion-3/electrotech-client/internal/shop"
)

// --- Fake store backend ---

const productJSON = `{"id":7,"name":"Laptop Pro","description":"Portatil 16GB","brand":"Acme","price":1299.99,"stock":4,"category":"Electronica","imageUrl":null}`

type fakeBackend struct {
	mu      sync.Mutex
	cartQty int
	ordered bool
}

func (f *fakeBackend) cartJSON() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartQty == 0 {
		return `{"items":[]}`
	}
	return fmt.Sprintf(`{"items":[{"id":1,"product":%s,"quantity":%d}]}`, productJSON, f.cartQty)
}

func (f *fakeBackend) orderJSON() string {
	return fmt.Sprintf(`{"id":42,"createdAt":"2026-08-30T12:00:00","status":"pendiente","total":1299.99,"items":[{"product":%s,"quantity":1}]}`, productJSON)
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			write(w, http.StatusNotFound, `{"detail":"Producto no encontrado"}`)
			return
		}
		write(w, http.StatusOK, productJSON)
	})
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, f.cartJSON())
	})
	mux.HandleFunc("POST /api/cart/add", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		f.cartQty++
		f.mu.Unlock()
		write(w, http.StatusOK, f.cartJSON())
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		f.cartQty = 0
		f.ordered = true
		f.mu.Unlock()
		write(w, http.StatusCreated, f.orderJSON())
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		ordered := f.ordered
		f.mu.Unlock()
		if !ordered {
			write(w, http.StatusOK, `[]`)
			return
		}
		write(w, http.StatusOK, "["+f.orderJSON()+"]")
	})
	mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "42" {
			write(w, http.StatusForbidden, `{"detail":"No tienes permiso para ver este pedido"}`)
			return
		}
		write(w, http.StatusOK, f.orderJSON())
	})

	return mux
}

// --- Harness ---

type memTokens struct {
	mu  sync.Mutex
	tok string
}

func (m *memTokens) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok, nil
}

func (m *memTokens) Save(token string) error {
	m.mu.Lock()
	m.tok = token
	m.mu.Unlock()
	return nil
}

func (m *memTokens) Clear() error { return m.Save("") }

// newDispatchClient wires the real component stack with a pre-seeded session,
// so dispatch tests start authenticated.
func newDispatchClient(t *testing.T) *shop.Client {
	t.Helper()

	fake := &fakeBackend{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	lg := zap.NewNop()
	sess := session.NewManager(&memTokens{tok: "tok-1"}, lg)

	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, sess, sess.Invalidate, lg)
	require.NoError(t, err)

	cartSync := cartsync.New(gw)
	hist := history.New(gw)
	engine := catalog.New(context.Background(), catalog.Config{PageSize: 6, Quiet: 10 * time.Millisecond}, gw,
		[]catalog.Refresher{cartSync, hist}, lg)
	t.Cleanup(engine.Stop)

	mach := checkout.New(gw, cartSync, hist, lg)
	return shop.New(sess, gw, engine, cartSync, hist, mach, lg)
}

// --- Tests ---

func TestDispatch_CheckoutAwaitsConfirmCommand(t *testing.T) {
	client := newDispatchClient(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, &out, client, "add 7"))
	require.NoError(t, dispatch(ctx, &out, client, "checkout"))

	// The prompt is a command, not an inline read: dispatch returns with the
	// machine parked in Confirming until a confirm/decline line arrives.
	assert.Equal(t, checkout.Confirming, client.CheckoutState())
	assert.Contains(t, out.String(), "1299.99")
	assert.Contains(t, out.String(), "confirm")

	require.NoError(t, dispatch(ctx, &out, client, "confirm"))
	assert.Equal(t, checkout.Idle, client.CheckoutState())
	assert.Contains(t, out.String(), "order #42 placed")
	assert.True(t, client.Cart().Empty())
	require.Len(t, client.Orders(), 1)
}

func TestDispatch_CheckoutDecline(t *testing.T) {
	client := newDispatchClient(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, &out, client, "add 7"))
	require.NoError(t, dispatch(ctx, &out, client, "checkout"))
	require.NoError(t, dispatch(ctx, &out, client, "decline"))

	assert.Equal(t, checkout.Idle, client.CheckoutState())
	assert.Contains(t, out.String(), "checkout abandoned")
	// Declining keeps the cart.
	assert.Equal(t, 1, client.Cart().Len())
	assert.Empty(t, client.Orders())
}

func TestDispatch_ConfirmWithoutCheckout(t *testing.T) {
	client := newDispatchClient(t)
	var out bytes.Buffer

	err := dispatch(context.Background(), &out, client, "confirm")
	require.ErrorIs(t, err, checkout.ErrNotConfirming)
}

func TestDispatch_ShowProduct(t *testing.T) {
	client := newDispatchClient(t)
	var out bytes.Buffer

	require.NoError(t, dispatch(context.Background(), &out, client, "show 7"))
	assert.Contains(t, out.String(), "Laptop Pro")
	assert.Contains(t, out.String(), "Acme")
	assert.Contains(t, out.String(), "Portatil 16GB")
}

func TestDispatch_ShowUnknownProduct(t *testing.T) {
	client := newDispatchClient(t)
	var out bytes.Buffer

	err := dispatch(context.Background(), &out, client, "show 999")
	require.Error(t, err)

	var verr *gateway.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Detail, "no encontrado")
}

func TestDispatch_OrderDetail(t *testing.T) {
	client := newDispatchClient(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, dispatch(ctx, &out, client, "add 7"))
	require.NoError(t, dispatch(ctx, &out, client, "checkout"))
	require.NoError(t, dispatch(ctx, &out, client, "confirm"))

	out.Reset()
	require.NoError(t, dispatch(ctx, &out, client, "order 42"))
	assert.Contains(t, out.String(), "order #42")
	assert.Contains(t, out.String(), "pendiente")

	err := dispatch(ctx, &out, client, "order 41")
	var privErr *gateway.PrivilegeError
	require.ErrorAs(t, err, &privErr)
}
