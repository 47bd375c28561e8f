package catalog

import (
	"context"
	"log"
	"slices"

	"github.com/0x0BSoD/newsApp/internal/model"
)

type BookmarkAction string

const (
	ActionSaved   BookmarkAction = "Article saved"
	ActionDeleted BookmarkAction = "Article deleted"
)

// Bookmarks lists saved articles, most recently saved first.
func (c *Catalog) Bookmarks(ctx context.Context) ([]model.Article, error) {
	articles, err := c.articles.Articles(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(articles)
	return articles, nil
}

// WatchBookmarks is Bookmarks as a stream of snapshots.
func (c *Catalog) WatchBookmarks(ctx context.Context) (<-chan []model.Article, error) {
	updates, err := c.articles.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []model.Article)
	go func() {
		defer close(out)
		for articles := range updates {
			articles = slices.Clone(articles)
			slices.Reverse(articles)

			select {
			case out <- articles:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// ToggleBookmark saves the article when it is not stored yet and deletes it
// otherwise.
func (c *Catalog) ToggleBookmark(ctx context.Context, article model.Article) (BookmarkAction, error) {
	saved, err := c.articles.ArticleByURL(ctx, article.URL)
	if err != nil {
		return "", err
	}

	if saved == nil {
		if err := c.articles.Upsert(ctx, article); err != nil {
			return "", err
		}
		return ActionSaved, nil
	}

	if err := c.articles.Delete(ctx, article); err != nil {
		return "", err
	}
	return ActionDeleted, nil
}

var DemoArticle = model.Article{
	Author:      "Julian Lin",
	Content:     "KE ZHUANG\r\nIs there a more beaten-down growth stock than SolarEdge (SEDG)? 2023 saw tech stocks across the board recover much of their losses suffered in 2022. SEDG appears to be experiencing a delay… [+9106 chars]",
	Description: "SolarEdge faces challenges but remains optimistic with a strong cash balance sheet and attractive valuation. Check out the full analysis of SEDG stock.",
	PublishedAt: "2024-01-01T09:15:34Z",
	Source:      model.Source{ID: "", Name: "BBC"},
	Title:       "SolarEdge: I Was So Wrong, But This Is Too Much",
	URL:         "https://seekingalpha.com/article/4660590-solaredge-i-was-so-wrong-but-this-is-too-much",
	URLToImage:  "https://static.seekingalpha.com/cdn/s3/uploads/getty_images/1468753570/image_1468753570.jpg?io=getty-c-w1536",
}

// SeedDemo writes DemoArticle into the store. It replaces any previous copy.
func (c *Catalog) SeedDemo(ctx context.Context) error {
	if err := c.articles.Upsert(ctx, DemoArticle); err != nil {
		return err
	}
	log.Printf("[INFO] seeded demo article %q", DemoArticle.Title)
	return nil
}
