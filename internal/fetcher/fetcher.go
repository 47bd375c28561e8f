package fetcher

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

// FeedClient returns one page of raw articles for a set of sources, either
// unfiltered or for a search query. Pages start at 1. source.NewsAPI and
// source.RSS implement it.
type FeedClient interface {
	FetchPage(ctx context.Context, sources []string, page int) (model.Page, error)
	SearchPage(ctx context.Context, query string, sources []string, page int) (model.Page, error)
}

// PagingSource walks the remote feed one page at a time for a fixed set of
// sources and, optionally, a search query. One instance backs one pager
// generation; its fetched counter is never shared.
type PagingSource struct {
	client  FeedClient
	sources []string
	query   string
	search  bool

	mu           sync.Mutex
	totalFetched int
}

func NewNewsSource(client FeedClient, sources []string) *PagingSource {
	return &PagingSource{
		client:  client,
		sources: sources,
	}
}

func NewSearchSource(client FeedClient, query string, sources []string) *PagingSource {
	return &PagingSource{
		client:  client,
		sources: sources,
		query:   query,
		search:  true,
	}
}

// Load fetches the page for params.Key (page 1 when unset). The counter is
// increased by the raw article count before titles are deduplicated, and
// pagination ends once it equals the server's total.
func (s *PagingSource) Load(ctx context.Context, params paging.LoadParams) (paging.Page[model.Article], error) {
	page := 1
	if params.Key != nil {
		page = *params.Key
	}

	resp, err := s.fetch(ctx, page)
	if err != nil {
		log.Printf("[ERROR] failed to load page %d of %s: %v", page, s.describe(), err)
		return paging.Page[model.Article]{}, err
	}

	s.mu.Lock()
	s.totalFetched += len(resp.Articles)
	total := s.totalFetched
	s.mu.Unlock()

	var next *int
	if total != resp.TotalResults {
		next = paging.Key(page + 1)
	}

	return paging.Page[model.Article]{
		Data:    Dedupe(resp.Articles),
		NextKey: next,
	}, nil
}

func (s *PagingSource) fetch(ctx context.Context, page int) (model.Page, error) {
	if s.search {
		return s.client.SearchPage(ctx, s.query, s.sources, page)
	}
	return s.client.FetchPage(ctx, s.sources, page)
}

// RefreshKey picks the page to reload around the last accessed position.
func (s *PagingSource) RefreshKey(state paging.State[model.Article]) *int {
	if state.AnchorPosition == nil {
		return nil
	}

	anchor, ok := state.ClosestPageToPosition(*state.AnchorPosition)
	if !ok {
		return nil
	}

	switch {
	case anchor.PrevKey != nil:
		return paging.Key(*anchor.PrevKey + 1)
	case anchor.NextKey != nil:
		return paging.Key(*anchor.NextKey - 1)
	default:
		return nil
	}
}

// TotalFetched is the number of raw articles received so far.
func (s *PagingSource) TotalFetched() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalFetched
}

func (s *PagingSource) describe() string {
	sources := strings.Join(s.sources, ",")
	if s.search {
		return fmt.Sprintf("search %q in %s", s.query, sources)
	}
	return "news from " + sources
}

// Dedupe drops articles whose title was already seen. The first occurrence
// wins and order is kept.
func Dedupe(articles []model.Article) []model.Article {
	return lo.UniqBy(articles, func(a model.Article) string {
		return a.Title
	})
}
