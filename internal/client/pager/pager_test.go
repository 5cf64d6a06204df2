package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func intp(n int) *int { return &n }

func seq(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

// scripted serves pages from a map and records every call.
type scripted struct {
	mu    sync.Mutex
	pages map[int]Batch[int]
	err   error
	calls []string
}

func (s *scripted) fetch(_ context.Context, page, size int, refresh bool) (Batch[int], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("page=%d size=%d refresh=%t", page, size, refresh))
	if s.err != nil {
		return Batch[int]{}, s.err
	}
	return s.pages[page], nil
}

func TestNew_Defaults(t *testing.T) {
	c := New[int](nil)
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, 1, c.Page())
	assert.True(t, c.HasMore())
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Items())
}

func TestWithPageSize_Clamped(t *testing.T) {
	assert.Equal(t, DefaultPageSize, New[int](nil, WithPageSize[int](0)).PageSize())
	assert.Equal(t, MaxPageSize, New[int](nil, WithPageSize[int](1000)).PageSize())
	assert.Equal(t, 7, New[int](nil, WithPageSize[int](7)).PageSize())
}

func TestScenario_FullThenShortPage(t *testing.T) {
	src := &scripted{pages: map[int]Batch[int]{
		1: {Items: seq(0, 20)},
		2: {Items: seq(20, 5)},
	}}
	c := New(src.fetch)
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	assert.Len(t, c.Items(), 20)
	assert.True(t, c.HasMore())
	assert.Equal(t, 1, c.Page())

	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, c.Items(), 25)
	assert.False(t, c.HasMore())
	assert.Equal(t, 2, c.Page())
	assert.True(t, c.IsLastPage())

	require.NoError(t, c.LoadMore(ctx))
	assert.Len(t, src.calls, 2, "exhausted list must not fetch")

	if diff := cmp.Diff(seq(0, 25), c.Items()); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"page=1 size=20 refresh=true",
		"page=2 size=20 refresh=false",
	}, src.calls)
}

func TestRefresh_ReplacesItems(t *testing.T) {
	src := &scripted{pages: map[int]Batch[int]{
		1: {Items: seq(0, 3)},
		2: {Items: seq(3, 3)},
	}}
	c := New(src.fetch, WithPageSize[int](3))
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.Len(t, c.Items(), 6)
	require.Equal(t, 2, c.Page())

	src.pages[1] = Batch[int]{Items: []int{100}}
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, []int{100}, c.Items())
	assert.Equal(t, 1, c.Page())
	assert.False(t, c.HasMore())
}

func TestApply_EmptyLoadMoreBatchEndsList(t *testing.T) {
	c := New[int](nil)
	c.Apply(Batch[int]{Items: seq(0, 20), TotalCount: intp(100)}, true)
	require.True(t, c.HasMore())

	c.Apply(Batch[int]{TotalCount: intp(100), TotalPages: intp(5)}, false)
	assert.False(t, c.HasMore(), "empty batch wins over totals")
	assert.Equal(t, 1, c.Page())
	assert.Len(t, c.Items(), 20)
}

func TestApply_HasMorePolicy(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch[int]
		want  bool
	}{
		{"total pages remaining", Batch[int]{Items: seq(0, 2), TotalPages: intp(3)}, true},
		{"total pages reached", Batch[int]{Items: seq(0, 2), TotalPages: intp(1)}, false},
		{"total pages beats count", Batch[int]{Items: seq(0, 2), TotalPages: intp(1), TotalCount: intp(50)}, false},
		{"total count remaining", Batch[int]{Items: seq(0, 2), TotalCount: intp(3)}, true},
		{"total count reached", Batch[int]{Items: seq(0, 2), TotalCount: intp(2)}, false},
		{"full page no totals", Batch[int]{Items: seq(0, 2)}, true},
		{"short page no totals", Batch[int]{Items: seq(0, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[int](nil, WithPageSize[int](2))
			c.Apply(tt.batch, true)
			assert.Equal(t, tt.want, c.HasMore())
		})
	}
}

func TestFailure_LeavesStateUnchanged(t *testing.T) {
	boom := errors.New("boom")
	src := &scripted{pages: map[int]Batch[int]{1: {Items: seq(0, 20)}}}
	c := New(src.fetch)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	src.err = boom
	require.ErrorIs(t, c.LoadMore(ctx), boom)
	assert.Len(t, c.Items(), 20)
	assert.Equal(t, 1, c.Page())
	assert.True(t, c.HasMore())
	assert.Equal(t, Idle, c.State())

	require.ErrorIs(t, c.Refresh(ctx), boom)
	assert.Len(t, c.Items(), 20)
	assert.Equal(t, Idle, c.State())
}

func TestInFlight_SecondCallRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, page, size int, refresh bool) (Batch[int], error) {
		close(started)
		<-release
		return Batch[int]{Items: seq(0, size)}, nil
	}
	c := New(fetch)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Refresh(ctx) }()
	<-started

	assert.Equal(t, Refreshing, c.State())
	assert.ErrorIs(t, c.Refresh(ctx), ErrInFlight)
	assert.ErrorIs(t, c.LoadMore(ctx), ErrInFlight)
	assert.Empty(t, c.Items(), "items readable while fetching")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, c.State())
	assert.Len(t, c.Items(), DefaultPageSize)
}

func TestReset(t *testing.T) {
	src := &scripted{pages: map[int]Batch[int]{1: {Items: seq(0, 3)}}}
	c := New(src.fetch, WithPageSize[int](3))
	require.NoError(t, c.Refresh(context.Background()))
	c.Apply(Batch[int]{}, false)
	require.False(t, c.HasMore())

	c.Reset()
	assert.Empty(t, c.Items())
	assert.Equal(t, 1, c.Page())
	assert.True(t, c.HasMore())
	assert.Len(t, src.calls, 1, "reset must not fetch")
}

func TestOnChange(t *testing.T) {
	type call struct {
		n       int
		refresh bool
	}
	var calls []call
	src := &scripted{pages: map[int]Batch[int]{
		1: {Items: seq(0, 2)},
		2: {Items: seq(2, 2)},
	}}
	c := New(src.fetch, WithPageSize[int](2), WithOnChange(func(items []int, refresh bool) {
		calls = append(calls, call{len(items), refresh})
	}))
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	assert.Equal(t, []call{{2, true}, {4, false}}, calls, "empty page must not notify")
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New[int](nil)
	c.Apply(Batch[int]{Items: []int{1, 2}}, true)

	got := c.Items()
	got[0] = 99
	assert.Equal(t, []int{1, 2}, c.Items())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "refreshing", Refreshing.String())
	assert.Equal(t, "loading_more", LoadingMore.String())
}

func TestLoadUntil(t *testing.T) {
	pages := map[int]Batch[int]{
		1: {Items: seq(0, 2), TotalCount: intp(5)},
		2: {Items: seq(2, 2), TotalCount: intp(5)},
		3: {Items: seq(4, 1), TotalCount: intp(5)},
	}

	t.Run("all", func(t *testing.T) {
		src := &scripted{pages: pages}
		c := New(src.fetch, WithPageSize[int](2))
		require.NoError(t, c.LoadUntil(context.Background(), 0))
		assert.Equal(t, seq(0, 5), c.Items())
		assert.Len(t, src.calls, 3)
	})

	t.Run("limit", func(t *testing.T) {
		src := &scripted{pages: pages}
		c := New(src.fetch, WithPageSize[int](2))
		require.NoError(t, c.LoadUntil(context.Background(), 3))
		assert.Len(t, c.Items(), 4)
		assert.Len(t, src.calls, 2)
	})

	t.Run("error stops", func(t *testing.T) {
		src := &scripted{err: errors.New("down")}
		c := New(src.fetch)
		require.Error(t, c.LoadUntil(context.Background(), 0))
	})
}
