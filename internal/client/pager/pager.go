// Package pager drives page-by-page loading of a remote list: refresh from
// the first page, append the next page, and decide when the list is
// exhausted.
//
// A Controller has one logical owner that calls Refresh and LoadMore. Only
// one fetch runs at a time; a call made while another is in flight returns
// ErrInFlight without touching the network. The fetch itself runs without
// holding the state lock, and its result is applied under it.
package pager

import (
	"context"
	"errors"
	"sync"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInFlight = errors.New("pager: fetch already in flight")

type State int

const (
	Idle State = iota
	Refreshing
	LoadingMore
)

func (s State) String() string {
	switch s {
	case Refreshing:
		return "refreshing"
	case LoadingMore:
		return "loading_more"
	default:
		return "idle"
	}
}

// Batch is one fetched page. TotalCount and TotalPages are nil when the
// source does not report them.
type Batch[T any] struct {
	Items      []T
	TotalCount *int
	TotalPages *int
}

// FetchFunc loads page (1-based) of size pageSize.
type FetchFunc[T any] func(ctx context.Context, page, pageSize int, isRefresh bool) (Batch[T], error)

type Option[T any] func(*Controller[T])

// WithPageSize sets the page size, clamped to [1, MaxPageSize].
func WithPageSize[T any](n int) Option[T] {
	return func(c *Controller[T]) { c.pageSize = clampPageSize(n) }
}

// WithOnChange registers a callback invoked after every applied batch with
// a copy of the items. It runs on the caller's goroutine, outside the lock.
func WithOnChange[T any](fn func(items []T, isRefresh bool)) Option[T] {
	return func(c *Controller[T]) { c.onChange = fn }
}

type Controller[T any] struct {
	fetch    FetchFunc[T]
	onChange func(items []T, isRefresh bool)
	pageSize int

	mu      sync.Mutex
	items   []T
	page    int
	hasMore bool
	state   State
}

func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		fetch:    fetch,
		pageSize: DefaultPageSize,
		page:     1,
		hasMore:  true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}

// Refresh fetches the first page and replaces the items with it.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrInFlight
	}
	c.state = Refreshing
	c.mu.Unlock()

	return c.run(ctx, 1, true)
}

// LoadMore fetches the page after the current one and appends it. It is a
// no-op once the list is exhausted.
func (c *Controller[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return ErrInFlight
	}
	if !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.state = LoadingMore
	next := c.page + 1
	c.mu.Unlock()

	return c.run(ctx, next, false)
}

func (c *Controller[T]) run(ctx context.Context, page int, isRefresh bool) error {
	batch, err := c.fetch(ctx, page, c.pageSize, isRefresh)
	if err != nil {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.state = Idle
	items, changed := c.applyLocked(batch, isRefresh)
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(items, isRefresh)
	}
	return nil
}

// Apply merges a batch fetched outside the controller, exactly as a
// completed Refresh (isRefresh) or LoadMore would.
func (c *Controller[T]) Apply(batch Batch[T], isRefresh bool) {
	c.mu.Lock()
	items, changed := c.applyLocked(batch, isRefresh)
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(items, isRefresh)
	}
}

func (c *Controller[T]) applyLocked(b Batch[T], isRefresh bool) ([]T, bool) {
	if len(b.Items) == 0 && !isRefresh {
		c.hasMore = false
		return nil, false
	}

	if isRefresh {
		c.items = append([]T(nil), b.Items...)
		c.page = 1
	} else {
		c.items = append(c.items, b.Items...)
		c.page++
	}

	switch {
	case b.TotalPages != nil:
		c.hasMore = c.page < *b.TotalPages
	case b.TotalCount != nil:
		c.hasMore = len(c.items) < *b.TotalCount
	default:
		// a full last page still reports more; the next load comes back empty
		c.hasMore = len(b.Items) >= c.pageSize
	}

	return c.itemsLocked(), true
}

// Reset clears the list without fetching.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.page = 1
	c.hasMore = true
}

func (c *Controller[T]) itemsLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Items returns a copy of the loaded items.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemsLocked()
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) PageSize() int { return c.pageSize }

func (c *Controller[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller[T]) IsLastPage() bool {
	return !c.HasMore()
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadUntil refreshes and then keeps loading pages until the list is
// exhausted or holds at least limit items. A non-positive limit loads
// everything.
func (c *Controller[T]) LoadUntil(ctx context.Context, limit int) error {
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	for c.HasMore() && (limit <= 0 || len(c.Items()) < limit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}
