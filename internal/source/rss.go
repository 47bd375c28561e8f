package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"

	"github.com/0x0BSoD/newsApp/internal/model"
)

// contextTransport injects a context into every outgoing request so that
// context cancellation and deadlines propagate through the rss library.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// RSS serves the feed from plain RSS/Atom feeds, one per source id. A feed
// has no server-side paging: page 1 carries every item and reports their
// count as the total, later pages are empty.
type RSS struct {
	feeds   map[string]string
	base    http.RoundTripper
	timeout time.Duration
}

func NewRSS(feeds map[string]string, timeout time.Duration) *RSS {
	return &RSS{
		feeds:   feeds,
		base:    http.DefaultTransport,
		timeout: timeout,
	}
}

func (s *RSS) FetchPage(ctx context.Context, sources []string, page int) (model.Page, error) {
	return s.page(ctx, sources, page, func(model.Article) bool { return true })
}

func (s *RSS) SearchPage(ctx context.Context, query string, sources []string, page int) (model.Page, error) {
	query = strings.ToLower(query)
	return s.page(ctx, sources, page, func(a model.Article) bool {
		return strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Description), query) ||
			strings.Contains(strings.ToLower(a.Content), query)
	})
}

func (s *RSS) page(ctx context.Context, sources []string, page int, keep func(model.Article) bool) (model.Page, error) {
	var articles []model.Article
	for _, id := range sources {
		feedURL, ok := s.feeds[id]
		if !ok {
			continue
		}

		items, err := s.fetch(ctx, id, feedURL)
		if err != nil {
			return model.Page{}, err
		}
		articles = append(articles, lo.Filter(items, func(a model.Article, _ int) bool { return keep(a) })...)
	}

	total := len(articles)
	if page > 1 {
		articles = nil
	}

	return model.Page{Articles: articles, Status: "ok", TotalResults: total}, nil
}

func (s *RSS) fetch(ctx context.Context, sourceID, feedURL string) ([]model.Article, error) {
	client := &http.Client{
		Transport: contextTransport{ctx: ctx, base: s.base},
		Timeout:   s.timeout,
	}

	feed, err := rss.FetchByClient(feedURL, client)
	if err != nil {
		return nil, &NetworkError{Op: "fetch rss", URL: feedURL, Err: err}
	}

	src := model.Source{ID: sourceID, Name: feed.Title}
	return lo.Map(feed.Items, func(item *rss.Item, _ int) model.Article {
		return model.Article{
			Content:     itemText(item),
			Description: strings.TrimSpace(item.Summary),
			PublishedAt: item.Date.UTC().Format(time.RFC3339),
			Source:      src,
			Title:       item.Title,
			URL:         item.Link,
		}
	}), nil
}

// itemText returns the richest available text for an item.
// Content (full body) is preferred over Summary (short excerpt).
func itemText(item *rss.Item) string {
	if c := strings.TrimSpace(item.Content); c != "" {
		return c
	}
	return strings.TrimSpace(item.Summary)
}
