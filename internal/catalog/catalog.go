// Package catalog is the single entry point presentation code uses for news:
// paged remote feeds and searches on one side, the local bookmark store on
// the other.
package catalog

import (
	"context"
	"slices"

	"github.com/0x0BSoD/newsApp/internal/fetcher"
	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

var DefaultSources = []string{"bbc-news", "abc-news", "al-jazeera-english"}

type ArticleStore interface {
	Upsert(ctx context.Context, article model.Article) error
	Delete(ctx context.Context, article model.Article) error
	Articles(ctx context.Context) ([]model.Article, error)
	Watch(ctx context.Context) (<-chan []model.Article, error)
	ArticleByURL(ctx context.Context, url string) (*model.Article, error)
}

type Catalog struct {
	client   fetcher.FeedClient
	articles ArticleStore
	pageSize int
}

func New(client fetcher.FeedClient, articles ArticleStore, pageSize int) *Catalog {
	if pageSize <= 0 {
		pageSize = paging.DefaultPageSize
	}
	return &Catalog{
		client:   client,
		articles: articles,
		pageSize: pageSize,
	}
}

// GetNews returns a pager over the feed of the given sources. Nothing is
// loaded until the caller refreshes or appends.
func (c *Catalog) GetNews(sources []string) *paging.Pager[model.Article] {
	sources = slices.Clone(sources)
	return paging.New(paging.Config{PageSize: c.pageSize}, func() paging.Source[model.Article] {
		return fetcher.NewNewsSource(c.client, sources)
	})
}

func (c *Catalog) SearchNews(query string, sources []string) *paging.Pager[model.Article] {
	sources = slices.Clone(sources)
	return paging.New(paging.Config{PageSize: c.pageSize}, func() paging.Source[model.Article] {
		return fetcher.NewSearchSource(c.client, query, sources)
	})
}

func (c *Catalog) Upsert(ctx context.Context, article model.Article) error {
	return c.articles.Upsert(ctx, article)
}

func (c *Catalog) Delete(ctx context.Context, article model.Article) error {
	return c.articles.Delete(ctx, article)
}

func (c *Catalog) SelectArticles(ctx context.Context) ([]model.Article, error) {
	return c.articles.Articles(ctx)
}

func (c *Catalog) WatchArticles(ctx context.Context) (<-chan []model.Article, error) {
	return c.articles.Watch(ctx)
}

// SelectArticle returns nil when the article is not saved.
func (c *Catalog) SelectArticle(ctx context.Context, url string) (*model.Article, error) {
	return c.articles.ArticleByURL(ctx, url)
}
