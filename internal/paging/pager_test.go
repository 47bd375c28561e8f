package paging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numberSource serves pages of three ints: page n holds 3n-2..3n, up to last.
type numberSource struct {
	mu         sync.Mutex
	last       int
	failOn     map[int]error
	loads      []LoadParams
	refreshKey *int
	seenState  *State[int]

	// blockOn holds keys whose load waits for ctx to be done.
	blockOn map[int]chan struct{}
}

func (s *numberSource) Load(ctx context.Context, params LoadParams) (Page[int], error) {
	key := 1
	if params.Key != nil {
		key = *params.Key
	}

	if started, ok := s.blockOn[key]; ok {
		delete(s.blockOn, key)
		close(started)
		<-ctx.Done()
	}
	if err := ctx.Err(); err != nil {
		return Page[int]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads = append(s.loads, params)
	if err, ok := s.failOn[key]; ok {
		delete(s.failOn, key)
		return Page[int]{}, err
	}

	page := Page[int]{Data: []int{3*key - 2, 3*key - 1, 3 * key}}
	if key < s.last {
		page.NextKey = Key(key + 1)
	}
	return page, nil
}

func (s *numberSource) RefreshKey(state State[int]) *int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seenState = &state
	return s.refreshKey
}

type factory struct {
	sources []*numberSource
	next    func() *numberSource
}

func (f *factory) new() Source[int] {
	s := f.next()
	f.sources = append(f.sources, s)
	return s
}

func newPager(t *testing.T, next func() *numberSource) (*Pager[int], *factory) {
	t.Helper()
	f := &factory{next: next}
	return New(Config{PageSize: 3}, f.new), f
}

func TestPager_InitialLoadAndAppend(t *testing.T) {
	p, f := newPager(t, func() *numberSource { return &numberSource{last: 2} })
	ctx := context.Background()

	require.NoError(t, p.Append(ctx))
	snap := p.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, snap.Items)
	assert.Equal(t, NotLoading, snap.LoadStates.Refresh.Kind)
	assert.False(t, snap.LoadStates.Append.EndOfPaginationReached)

	require.Len(t, f.sources, 1)
	assert.Nil(t, f.sources[0].loads[0].Key)
	assert.Equal(t, 9, f.sources[0].loads[0].LoadSize)

	require.NoError(t, p.Append(ctx))
	snap = p.Snapshot()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, snap.Items)
	assert.True(t, snap.LoadStates.Append.EndOfPaginationReached)
	assert.Equal(t, 3, f.sources[0].loads[1].LoadSize)

	require.NoError(t, p.Append(ctx))
	assert.Len(t, f.sources[0].loads, 2, "no load past the end")
}

func TestPager_RefreshError(t *testing.T) {
	boom := errors.New("offline")
	failOn := map[int]error{1: boom}
	p, _ := newPager(t, func() *numberSource {
		return &numberSource{last: 5, failOn: failOn}
	})
	ctx := context.Background()

	err := p.Refresh(ctx)
	require.ErrorIs(t, err, boom)

	snap := p.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, Error, snap.LoadStates.Refresh.Kind)
	assert.ErrorIs(t, snap.LoadStates.Refresh.Err, boom)

	require.NoError(t, p.Retry(ctx))
	snap = p.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, snap.Items)
	assert.Equal(t, NotLoading, snap.LoadStates.Refresh.Kind)
}

func TestPager_AppendErrorKeepsData(t *testing.T) {
	boom := errors.New("timeout")
	p, f := newPager(t, func() *numberSource {
		return &numberSource{last: 5, failOn: map[int]error{2: boom}}
	})
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))
	require.ErrorIs(t, p.Append(ctx), boom)

	snap := p.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, snap.Items)
	assert.Equal(t, Error, snap.LoadStates.Append.Kind)
	assert.Equal(t, NotLoading, snap.LoadStates.Refresh.Kind)

	require.NoError(t, p.Retry(ctx))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, p.Snapshot().Items)
	assert.Len(t, f.sources, 1, "retrying an append keeps the generation")

	require.NoError(t, p.Retry(ctx), "nothing left to retry")
}

func TestPager_AppendCanceledKeepsData(t *testing.T) {
	p, _ := newPager(t, func() *numberSource { return &numberSource{last: 3} })
	require.NoError(t, p.Append(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Append(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	snap := p.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, snap.Items)
	assert.Equal(t, Error, snap.LoadStates.Append.Kind)
	assert.ErrorIs(t, snap.LoadStates.Append.Err, context.Canceled)
	assert.Equal(t, NotLoading, snap.LoadStates.Refresh.Kind)

	require.NoError(t, p.Retry(context.Background()))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, p.Snapshot().Items)
}

func TestPager_CancelInFlightAppend(t *testing.T) {
	started := make(chan struct{})
	p, _ := newPager(t, func() *numberSource {
		return &numberSource{last: 3, blockOn: map[int]chan struct{}{2: started}}
	})
	require.NoError(t, p.Append(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Append(ctx) }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("append never reached the source")
	}
	assert.Equal(t, Loading, p.Snapshot().LoadStates.Append.Kind)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("append was not aborted")
	}

	snap := p.Snapshot()
	assert.Equal(t, []int{1, 2, 3}, snap.Items)
	assert.Equal(t, Error, snap.LoadStates.Append.Kind)
}

func TestPager_RefreshUsesRefreshKey(t *testing.T) {
	p, f := newPager(t, func() *numberSource { return &numberSource{last: 5, refreshKey: Key(2)} })
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))
	require.NoError(t, p.Append(ctx))
	p.Access(4)

	require.NoError(t, p.Refresh(ctx))
	require.Len(t, f.sources, 2)

	seen := f.sources[0].seenState
	require.NotNil(t, seen)
	require.NotNil(t, seen.AnchorPosition)
	assert.Equal(t, 4, *seen.AnchorPosition)
	assert.Len(t, seen.Pages, 2)

	require.Len(t, f.sources[1].loads, 1)
	require.NotNil(t, f.sources[1].loads[0].Key)
	assert.Equal(t, 2, *f.sources[1].loads[0].Key)
	assert.Equal(t, []int{4, 5, 6}, p.Snapshot().Items)
}

func TestPager_Access(t *testing.T) {
	p, _ := newPager(t, func() *numberSource { return &numberSource{last: 2} })
	ctx := context.Background()

	assert.False(t, p.Access(0), "nothing loaded")

	require.NoError(t, p.Refresh(ctx))
	assert.True(t, p.Access(0), "within prefetch distance of the end")

	require.NoError(t, p.Append(ctx))
	assert.False(t, p.Access(5), "end of pagination")
}

func TestPager_Subscribe(t *testing.T) {
	p, _ := newPager(t, func() *numberSource { return &numberSource{last: 3} })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := p.Subscribe(ctx)

	first := <-updates
	assert.Empty(t, first.Items)

	require.NoError(t, p.Refresh(ctx))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-updates:
			if len(snap.Items) == 3 && snap.LoadStates.Refresh.Kind == NotLoading {
				cancel()
				_, open := <-drain(updates)
				assert.False(t, open)
				return
			}
		case <-deadline:
			t.Fatal("no snapshot with the refreshed page")
		}
	}
}

// drain reads until the channel closes and reports the final receive.
func drain[T any](ch <-chan T) <-chan T {
	done := make(chan T)
	go func() {
		for range ch {
		}
		close(done)
	}()
	return done
}

func TestState_ClosestPageToPosition(t *testing.T) {
	state := State[int]{Pages: []Page[int]{
		{Data: []int{1, 2, 3}, NextKey: Key(2)},
		{Data: []int{4, 5}, PrevKey: Key(1), NextKey: Key(3)},
	}}

	tests := []struct {
		name string
		pos  int
		want int
	}{
		{name: "first page", pos: 2, want: 1},
		{name: "second page", pos: 3, want: 4},
		{name: "past the end", pos: 42, want: 4},
		{name: "negative", pos: -1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := state.ClosestPageToPosition(tt.pos)
			require.True(t, ok)
			assert.Equal(t, tt.want, page.Data[0])
		})
	}

	_, ok := State[int]{}.ClosestPageToPosition(0)
	assert.False(t, ok)
}
