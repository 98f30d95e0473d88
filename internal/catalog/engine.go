// Package catalog drives the filterable, paginated product query. It owns the
// filter tuple, debounces filter changes, issues the paired page/count reads,
// and guards commits with a generation counter so a late response for a
// superseded filter is discarded instead of shown.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
	"github.com/etec-programacion-3/electrotech-client/pkg/debounce"
)

// Store is the remote catalog surface the engine reads from.
type Store interface {
	ListProducts(ctx context.Context, f product.Filter) ([]product.Product, error)
	CountProducts(ctx context.Context, f product.Filter) (int, error)
}

// Refresher is a dependent entity re-fetched on the engine's cadence. The set
// is fixed at construction (cart, order history), keeping "what gets reloaded
// per trigger" explicit and testable.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config holds engine tuning.
type Config struct {
	// PageSize is the fixed page size of the filter tuple. Defaults to 6.
	PageSize int
	// Quiet is the debounce quiet period. Defaults to 300ms.
	Quiet time.Duration
}

// Engine is the catalog query state machine.
type Engine struct {
	cfg        Config
	store      Store
	refreshers []Refresher
	sched      *debounce.Scheduler
	lg         *zap.Logger
	ctx        context.Context

	onChange func()
	onError  func(error)

	mu         sync.Mutex
	filter     product.Filter
	gen        uint64
	products   []product.Product
	totalPages int
}

// New creates an Engine. ctx bounds all fetches the engine issues for its
// lifetime. refreshers are re-fetched alongside every catalog read so that
// authorization expiry is detected promptly regardless of the active screen.
func New(ctx context.Context, cfg Config, store Store, refreshers []Refresher, lg *zap.Logger) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 6
	}
	if cfg.Quiet <= 0 {
		cfg.Quiet = 300 * time.Millisecond
	}
	return &Engine{
		cfg:        cfg,
		store:      store,
		refreshers: refreshers,
		sched:      debounce.New(cfg.Quiet),
		lg:         lg,
		ctx:        ctx,
		filter:     product.Filter{Page: 1, PageSize: cfg.PageSize},
		totalPages: 1,
		onChange:   func() {},
		onError:    func(error) {},
	}
}

// OnChange sets the callback fired after every committed refresh cycle.
// Set during wiring, before the engine is in use.
func (e *Engine) OnChange(fn func()) { e.onChange = fn }

// OnError sets the callback for non-authorization fetch failures. Each cycle
// reports at most one error. Authorization failures are not reported here:
// those are consumed by the session clear.
func (e *Engine) OnError(fn func(error)) { e.onError = fn }

// Filter returns the current filter tuple.
func (e *Engine) Filter() product.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Products returns the last committed product page.
func (e *Engine) Products() []product.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.products
}

// TotalPages returns the page count derived from the last committed cycle.
// Always at least 1.
func (e *Engine) TotalPages() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPages
}

// SetSearch updates the search term. Any change resets the page to 1 and
// schedules a debounced fetch.
func (e *Engine) SetSearch(term string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.Search == term {
		return
	}
	e.filter.Search = term
	e.filter.Page = 1
	e.scheduleLocked()
}

// SetCategory updates the category filter, resetting the page to 1.
func (e *Engine) SetCategory(category string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.Category == category {
		return
	}
	e.filter.Category = category
	e.filter.Page = 1
	e.scheduleLocked()
}

// SetBrand updates the brand filter, resetting the page to 1.
func (e *Engine) SetBrand(brand string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.Brand == brand {
		return
	}
	e.filter.Brand = brand
	e.filter.Page = 1
	e.scheduleLocked()
}

// SetPriceRange updates the price bounds, resetting the page to 1. Zero
// bounds mean "unbounded".
func (e *Engine) SetPriceRange(min, max decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.PriceMin.Equal(min) && e.filter.PriceMax.Equal(max) {
		return
	}
	e.filter.PriceMin = min
	e.filter.PriceMax = max
	e.filter.Page = 1
	e.scheduleLocked()
}

// CanPrev reports whether a previous page exists.
func (e *Engine) CanPrev() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Page > 1
}

// CanNext reports whether a next page exists.
func (e *Engine) CanNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Page < e.totalPages
}

// NextPage advances one page. Page navigation never resets the page counter;
// it is guarded by the derived page count.
func (e *Engine) NextPage() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.Page >= e.totalPages {
		return
	}
	e.filter.Page++
	e.scheduleLocked()
}

// PrevPage goes back one page.
func (e *Engine) PrevPage() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filter.Page <= 1 {
		return
	}
	e.filter.Page--
	e.scheduleLocked()
}

// Refresh schedules a fetch for the current filter through the same debounce
// gate as filter changes. Used on login, view changes, and after checkout.
func (e *Engine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scheduleLocked()
}

// Reset returns the engine to its zero state: default filter, no results.
// The generation bump guarantees any in-flight cycle is discarded. Wired as a
// session clear hook.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.gen++
	e.filter = product.Filter{Page: 1, PageSize: e.cfg.PageSize}
	e.products = nil
	e.totalPages = 1
	e.mu.Unlock()
	e.sched.Cancel()
}

// Stop cancels any pending fetch and rejects further scheduling.
func (e *Engine) Stop() {
	e.sched.Stop()
}

// scheduleLocked arms a debounced fetch for the current filter snapshot.
// Caller holds e.mu. A fresh generation is taken per arm, so a fetch that
// fires for an older snapshot can never commit.
func (e *Engine) scheduleLocked() {
	e.gen++
	gen := e.gen
	snapshot := e.filter
	e.sched.Trigger(func() {
		e.fetch(gen, snapshot)
	})
}

// fetch runs one refresh cycle for the given filter snapshot: the product
// page and total count in parallel, plus every registered refresher. The two
// catalog reads commit as a pair; if either fails the display degrades to
// empty rather than mixing filters.
func (e *Engine) fetch(gen uint64, f product.Filter) {
	ctx := e.ctx

	var (
		products []product.Product
		total    int
		listErr  error
		countErr error
	)
	refErrs := make([]error, len(e.refreshers))

	// The reads are causally independent and may race to completion in any
	// order; each goroutine records its own outcome so one failure does not
	// cancel the rest of the cycle.
	g := new(errgroup.Group)
	g.Go(func() error {
		products, listErr = e.store.ListProducts(ctx, f)
		return nil
	})
	g.Go(func() error {
		total, countErr = e.store.CountProducts(ctx, f)
		return nil
	})
	for i, r := range e.refreshers {
		g.Go(func() error {
			refErrs[i] = r.Refresh(ctx)
			return nil
		})
	}
	_ = g.Wait()

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		e.lg.Debug("Discarding stale catalog result",
			zap.Uint64("generation", gen),
			zap.String("search", f.Search),
		)
		return
	}
	if listErr == nil && countErr == nil {
		e.products = products
		e.totalPages = product.TotalPages(total, f.PageSize)
	} else {
		e.products = nil
		e.totalPages = 1
	}
	e.mu.Unlock()

	if err := firstErr(append([]error{listErr, countErr}, refErrs...)...); err != nil {
		if !errors.Is(err, gateway.ErrUnauthorized) {
			e.onError(err)
		}
	}
	e.onChange()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
