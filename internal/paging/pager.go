package paging

import (
	"context"
	"slices"
	"sync"
)

const DefaultPageSize = 10

type Config struct {
	PageSize int
	// InitialLoadSize defaults to three pages.
	InitialLoadSize int
	// PrefetchDistance defaults to one page.
	PrefetchDistance int
}

func (c Config) withDefaults() Config {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.InitialLoadSize <= 0 {
		c.InitialLoadSize = 3 * c.PageSize
	}
	if c.PrefetchDistance <= 0 {
		c.PrefetchDistance = c.PageSize
	}
	return c
}

type op int

const (
	opNone op = iota
	opRefresh
	opAppend
)

// Pager holds the pages of the current Source generation. Loads are
// serialized; Snapshot, Access and Subscribe never wait on the network.
type Pager[V any] struct {
	cfg     Config
	factory func() Source[V]

	loadMu sync.Mutex

	mu         sync.Mutex
	source     Source[V]
	pages      []Page[V]
	states     LoadStates
	anchor     *int
	lastFailed op
	subs       map[chan struct{}]struct{}
}

func New[V any](cfg Config, factory func() Source[V]) *Pager[V] {
	return &Pager[V]{
		cfg:     cfg.withDefaults(),
		factory: factory,
		subs:    make(map[chan struct{}]struct{}),
	}
}

func (p *Pager[V]) Config() Config {
	return p.cfg
}

// Refresh invalidates the current generation and loads the key the old
// Source picks from the current State, or the initial page for the first
// load. On failure the previous items stay visible.
func (p *Pager[V]) Refresh(ctx context.Context) error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	return p.refresh(ctx)
}

// Append loads the page after the last loaded one. It is a no-op once the
// end of pagination is reached, and performs the initial load when nothing
// was loaded yet.
func (p *Pager[V]) Append(ctx context.Context) error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	return p.append(ctx)
}

// Retry repeats the last failed load, if any.
func (p *Pager[V]) Retry(ctx context.Context) error {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.Lock()
	failed := p.lastFailed
	p.mu.Unlock()

	switch failed {
	case opRefresh:
		return p.refresh(ctx)
	case opAppend:
		return p.append(ctx)
	default:
		return nil
	}
}

func (p *Pager[V]) refresh(ctx context.Context) error {
	p.mu.Lock()
	prev := p.source
	state := State[V]{Pages: slices.Clone(p.pages), AnchorPosition: p.anchor}
	p.states.Refresh = LoadState{Kind: Loading}
	p.notifyLocked()
	p.mu.Unlock()

	var key *int
	if prev != nil {
		key = prev.RefreshKey(state)
	}

	next := p.factory()
	page, err := next.Load(ctx, LoadParams{Key: key, LoadSize: p.cfg.InitialLoadSize})

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.notifyLocked()

	if err != nil {
		p.states.Refresh = LoadState{Kind: Error, Err: err}
		p.lastFailed = opRefresh
		return err
	}

	p.source = next
	p.pages = []Page[V]{page}
	p.states = LoadStates{
		Refresh: LoadState{Kind: NotLoading},
		Append:  LoadState{Kind: NotLoading, EndOfPaginationReached: page.NextKey == nil},
	}
	p.lastFailed = opNone
	return nil
}

func (p *Pager[V]) append(ctx context.Context) error {
	p.mu.Lock()
	if p.source == nil || len(p.pages) == 0 {
		p.mu.Unlock()
		return p.refresh(ctx)
	}

	source := p.source
	key := p.pages[len(p.pages)-1].NextKey
	if key == nil {
		p.states.Append = LoadState{Kind: NotLoading, EndOfPaginationReached: true}
		p.mu.Unlock()
		return nil
	}

	p.states.Append = LoadState{Kind: Loading}
	p.notifyLocked()
	p.mu.Unlock()

	page, err := source.Load(ctx, LoadParams{Key: key, LoadSize: p.cfg.PageSize})

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.notifyLocked()

	if err != nil {
		p.states.Append = LoadState{Kind: Error, Err: err}
		p.lastFailed = opAppend
		return err
	}

	p.pages = append(p.pages, page)
	p.states.Append = LoadState{Kind: NotLoading, EndOfPaginationReached: page.NextKey == nil}
	p.lastFailed = opNone
	return nil
}

// Access records index as the anchor position and reports whether the
// consumer is close enough to the end that the next page should be loaded.
func (p *Pager[V]) Access(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.anchor = &index

	if len(p.pages) == 0 || p.pages[len(p.pages)-1].NextKey == nil {
		return false
	}
	if p.states.Append.Kind != NotLoading {
		return false
	}
	return index >= p.countLocked()-p.cfg.PrefetchDistance
}

func (p *Pager[V]) Snapshot() Snapshot[V] {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshotLocked()
}

func (p *Pager[V]) snapshotLocked() Snapshot[V] {
	items := make([]V, 0, p.countLocked())
	for _, page := range p.pages {
		items = append(items, page.Data...)
	}
	return Snapshot[V]{Items: items, LoadStates: p.states}
}

func (p *Pager[V]) countLocked() int {
	n := 0
	for _, page := range p.pages {
		n += len(page.Data)
	}
	return n
}

// Subscribe delivers the current snapshot, then the latest snapshot after
// every state change. A slow reader skips intermediate snapshots but always
// receives the newest one. The channel is closed when ctx is done.
func (p *Pager[V]) Subscribe(ctx context.Context) <-chan Snapshot[V] {
	signal := make(chan struct{}, 1)
	signal <- struct{}{}

	p.mu.Lock()
	p.subs[signal] = struct{}{}
	p.mu.Unlock()

	out := make(chan Snapshot[V])
	go func() {
		defer close(out)
		defer func() {
			p.mu.Lock()
			delete(p.subs, signal)
			p.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}

			select {
			case <-ctx.Done():
				return
			case out <- p.Snapshot():
			}
		}
	}()

	return out
}

func (p *Pager[V]) notifyLocked() {
	for signal := range p.subs {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}
