// Package paging adapts a keyed, forward-only page source into a growing
// in-memory sequence with load-state signaling.
//
// A Source loads one page at a time for an integer key. A Pager owns one
// Source generation at a time: Refresh replaces the generation with a fresh
// Source obtained from the factory, Append walks the current generation
// forward along NextKey.
package paging

import (
	"context"
	"fmt"
)

// LoadParams describe a single load. A nil Key requests the initial page.
type LoadParams struct {
	Key      *int
	LoadSize int
}

// Page is one loaded batch plus the keys of its neighbours. A nil key means
// there is nothing to load in that direction.
type Page[V any] struct {
	Data    []V
	PrevKey *int
	NextKey *int
}

// Source produces pages for keys. Implementations keep whatever state they
// need for one generation; a Pager never reuses a Source after refresh.
type Source[V any] interface {
	Load(ctx context.Context, params LoadParams) (Page[V], error)
	RefreshKey(state State[V]) *int
}

// State is what a Source sees when asked for a refresh key: the pages loaded
// so far and the position the consumer last accessed.
type State[V any] struct {
	Pages          []Page[V]
	AnchorPosition *int
}

// ClosestPageToPosition returns the loaded page holding the item at pos, or
// the nearest page when pos falls outside the loaded range.
func (s State[V]) ClosestPageToPosition(pos int) (Page[V], bool) {
	if len(s.Pages) == 0 {
		return Page[V]{}, false
	}
	if pos < 0 {
		return s.Pages[0], true
	}

	offset := 0
	for _, page := range s.Pages {
		if pos < offset+len(page.Data) {
			return page, true
		}
		offset += len(page.Data)
	}
	return s.Pages[len(s.Pages)-1], true
}

// Key returns a pointer to k, for building LoadParams and Page keys.
func Key(k int) *int {
	return &k
}

type Kind int

const (
	NotLoading Kind = iota
	Loading
	Error
)

func (k Kind) String() string {
	switch k {
	case NotLoading:
		return "not_loading"
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type LoadState struct {
	Kind                   Kind
	EndOfPaginationReached bool
	Err                    error
}

func (s LoadState) String() string {
	switch s.Kind {
	case Error:
		return fmt.Sprintf("error: %v", s.Err)
	case NotLoading:
		if s.EndOfPaginationReached {
			return "not_loading (end)"
		}
	}
	return s.Kind.String()
}

// LoadStates track the initial/refresh load and the forward append load
// separately, so a failed append never hides data the refresh produced.
type LoadStates struct {
	Refresh LoadState
	Append  LoadState
}

type Snapshot[V any] struct {
	Items      []V
	LoadStates LoadStates
}
