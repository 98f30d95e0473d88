package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
)

// --- Mock implementations ---

// fakeStore serves a catalog whose single product is named after the filter's
// search term, which lets tests tell apart which filter a commit belongs to.
type fakeStore struct {
	mu         sync.Mutex
	listCalls  int
	countCalls int
	lastFilter product.Filter
	total      int
	listErr    error
	countErr   error
	blockList  chan struct{} // first ListProducts call waits on it when set
}

func (s *fakeStore) ListProducts(_ context.Context, f product.Filter) ([]product.Product, error) {
	s.mu.Lock()
	s.listCalls++
	s.lastFilter = f
	block := s.blockList
	s.blockList = nil
	err := s.listErr
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return []product.Product{{ID: 1, Name: f.Search}}, nil
}

func (s *fakeStore) CountProducts(_ context.Context, f product.Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.total, nil
}

func (s *fakeStore) calls() (list, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.countCalls
}

func (s *fakeStore) filter() product.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFilter
}

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *fakeRefresher) Refresh(_ context.Context) error {
	r.calls.Add(1)
	return r.err
}

// --- Helpers ---

const quiet = 10 * time.Millisecond

func newTestEngine(t *testing.T, store *fakeStore, refreshers ...Refresher) (*Engine, *atomic.Int32) {
	t.Helper()
	e := New(context.Background(), Config{PageSize: 6, Quiet: quiet}, store, refreshers, zap.NewNop())
	t.Cleanup(e.Stop)

	var commits atomic.Int32
	e.OnChange(func() { commits.Add(1) })
	return e, &commits
}

func waitCommits(t *testing.T, commits *atomic.Int32, want int32) {
	t.Helper()
	require.Eventually(t, func() bool {
		return commits.Load() >= want
	}, time.Second, time.Millisecond)
}

// --- Tests ---

func TestBurstCollapsesToOneFetch(t *testing.T) {
	store := &fakeStore{total: 12}
	e, commits := newTestEngine(t, store)

	// Changes arriving faster than the quiet period: one fetch, last filter.
	e.SetSearch("l")
	e.SetSearch("la")
	e.SetSearch("lap")

	waitCommits(t, commits, 1)
	time.Sleep(3 * quiet) // a second fire would have happened by now

	list, count := store.calls()
	assert.Equal(t, 1, list)
	assert.Equal(t, 1, count)
	assert.Equal(t, "lap", store.filter().Search)
}

func TestFilterChangeResetsPage(t *testing.T) {
	store := &fakeStore{total: 100}
	e, commits := newTestEngine(t, store)

	e.Refresh()
	waitCommits(t, commits, 1)

	e.NextPage()
	waitCommits(t, commits, 2)
	require.Equal(t, 2, e.Filter().Page)

	// Changing the term goes back to page 1; navigating pages never does.
	e.SetSearch("monitor")
	assert.Equal(t, 1, e.Filter().Page)

	waitCommits(t, commits, 3)
	e.NextPage()
	assert.Equal(t, 2, e.Filter().Page)

	e.SetCategory("Electronica")
	assert.Equal(t, 1, e.Filter().Page)
}

func TestPaginationGuards(t *testing.T) {
	store := &fakeStore{total: 12} // two pages at size 6
	e, commits := newTestEngine(t, store)

	assert.False(t, e.CanPrev())
	assert.False(t, e.CanNext()) // nothing committed yet, totalPages = 1

	e.Refresh()
	waitCommits(t, commits, 1)
	assert.Equal(t, 2, e.TotalPages())
	assert.True(t, e.CanNext())
	assert.False(t, e.CanPrev())

	e.NextPage()
	waitCommits(t, commits, 2)
	assert.Equal(t, 2, e.Filter().Page)
	assert.False(t, e.CanNext())
	assert.True(t, e.CanPrev())

	// Guarded: navigating past the last page is a no-op.
	listBefore, _ := store.calls()
	e.NextPage()
	time.Sleep(3 * quiet)
	listAfter, _ := store.calls()
	assert.Equal(t, listBefore, listAfter)
	assert.Equal(t, 2, e.Filter().Page)
}

func TestZeroTotalMeansOnePage(t *testing.T) {
	store := &fakeStore{total: 0}
	e, commits := newTestEngine(t, store)

	e.Refresh()
	waitCommits(t, commits, 1)

	assert.Equal(t, 1, e.TotalPages())
	assert.False(t, e.CanNext())
	assert.False(t, e.CanPrev())
}

func TestRefreshersRunOnSameCadence(t *testing.T) {
	store := &fakeStore{total: 6}
	cartRef := &fakeRefresher{}
	ordersRef := &fakeRefresher{}
	e, commits := newTestEngine(t, store, cartRef, ordersRef)

	e.Refresh()
	waitCommits(t, commits, 1)

	assert.Equal(t, int32(1), cartRef.calls.Load())
	assert.Equal(t, int32(1), ordersRef.calls.Load())

	e.SetSearch("laptop")
	waitCommits(t, commits, 2)

	assert.Equal(t, int32(2), cartRef.calls.Load())
	assert.Equal(t, int32(2), ordersRef.calls.Load())
}

func TestStaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	store := &fakeStore{total: 6, blockList: release}
	e, commits := newTestEngine(t, store)

	// First fetch fires and blocks inside ListProducts.
	e.SetSearch("old")
	require.Eventually(t, func() bool {
		list, _ := store.calls()
		return list == 1
	}, time.Second, time.Millisecond)

	// The user kept typing: a newer filter supersedes the in-flight one.
	e.SetSearch("new")
	close(release)

	waitCommits(t, commits, 1)
	require.Eventually(t, func() bool {
		products := e.Products()
		return len(products) == 1 && products[0].Name == "new"
	}, time.Second, time.Millisecond)

	// The blocked fetch for "old" must never have been committed.
	time.Sleep(3 * quiet)
	products := e.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "new", products[0].Name)
}

func TestFetchErrorDegradesToEmpty(t *testing.T) {
	store := &fakeStore{total: 6, listErr: errors.New("boom")}
	e, commits := newTestEngine(t, store)

	var gotErr error
	var errCalls atomic.Int32
	e.OnError(func(err error) {
		gotErr = err
		errCalls.Add(1)
	})

	e.Refresh()
	waitCommits(t, commits, 1)

	assert.Empty(t, e.Products())
	assert.Equal(t, 1, e.TotalPages())
	assert.Equal(t, int32(1), errCalls.Load())
	assert.ErrorContains(t, gotErr, "boom")
}

func TestUnauthorizedNotReportedAsFetchError(t *testing.T) {
	store := &fakeStore{total: 6, listErr: gateway.ErrUnauthorized}
	e, commits := newTestEngine(t, store)

	var errCalls atomic.Int32
	e.OnError(func(error) { errCalls.Add(1) })

	e.Refresh()
	waitCommits(t, commits, 1)

	// The session clear consumes authorization failures; reporting them here
	// too would double-handle the same error.
	assert.Zero(t, errCalls.Load())
}

func TestReset(t *testing.T) {
	store := &fakeStore{total: 12}
	e, commits := newTestEngine(t, store)

	e.SetSearch("laptop")
	waitCommits(t, commits, 1)
	require.NotEmpty(t, e.Products())

	e.Reset()

	assert.Empty(t, e.Products())
	assert.Equal(t, 1, e.TotalPages())
	f := e.Filter()
	assert.Empty(t, f.Search)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 6, f.PageSize)
}

func TestUnchangedFilterDoesNotSchedule(t *testing.T) {
	store := &fakeStore{total: 6}
	e, commits := newTestEngine(t, store)

	e.SetSearch("laptop")
	waitCommits(t, commits, 1)

	listBefore, _ := store.calls()
	e.SetSearch("laptop")
	e.SetCategory("")
	time.Sleep(3 * quiet)

	listAfter, _ := store.calls()
	assert.Equal(t, listBefore, listAfter)
}
