package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/storage"
)

type MockFeedClient struct {
	mock.Mock
}

func (m *MockFeedClient) FetchPage(ctx context.Context, sources []string, page int) (model.Page, error) {
	args := m.Called(ctx, sources, page)
	return args.Get(0).(model.Page), args.Error(1)
}

func (m *MockFeedClient) SearchPage(ctx context.Context, query string, sources []string, page int) (model.Page, error) {
	args := m.Called(ctx, query, sources, page)
	return args.Get(0).(model.Page), args.Error(1)
}

func testStore(t *testing.T) *storage.ArticleStorage {
	t.Helper()
	db, err := storage.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), storage.DatabaseName))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewArticleStorage(db)
}

func article(title, url string) model.Article {
	return model.Article{Title: title, URL: url, Source: model.Source{ID: "bbc-news", Name: "BBC News"}}
}

func TestCatalog_GetNews(t *testing.T) {
	client := new(MockFeedClient)
	client.On("FetchPage", mock.Anything, DefaultSources, 1).Return(model.Page{
		Articles:     []model.Article{article("A", "https://a"), article("B", "https://b")},
		Status:       "ok",
		TotalResults: 3,
	}, nil).Once()
	client.On("FetchPage", mock.Anything, DefaultSources, 2).Return(model.Page{
		Articles:     []model.Article{article("C", "https://c")},
		Status:       "ok",
		TotalResults: 3,
	}, nil).Once()

	c := New(client, testStore(t), 10)
	pager := c.GetNews(DefaultSources)
	assert.Equal(t, 10, pager.Config().PageSize)

	ctx := context.Background()
	require.NoError(t, pager.Append(ctx))
	require.NoError(t, pager.Append(ctx))

	snap := pager.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "C", snap.Items[2].Title)
	assert.True(t, snap.LoadStates.Append.EndOfPaginationReached)
	client.AssertExpectations(t)
}

func TestCatalog_SearchNews(t *testing.T) {
	client := new(MockFeedClient)
	client.On("SearchPage", mock.Anything, "solar", DefaultSources, 1).Return(model.Page{
		Articles:     []model.Article{article("Solar", "https://s")},
		Status:       "ok",
		TotalResults: 1,
	}, nil)

	c := New(client, testStore(t), 0)
	pager := c.SearchNews("solar", DefaultSources)
	assert.Equal(t, 10, pager.Config().PageSize, "non-positive page size falls back to the default")

	require.NoError(t, pager.Refresh(context.Background()))
	snap := pager.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Solar", snap.Items[0].Title)
	client.AssertExpectations(t)
}

func TestCatalog_GetNewsError(t *testing.T) {
	boom := errors.New("unreachable")
	client := new(MockFeedClient)
	client.On("FetchPage", mock.Anything, DefaultSources, 1).Return(model.Page{}, boom)

	pager := New(client, testStore(t), 10).GetNews(DefaultSources)
	err := pager.Refresh(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, pager.Snapshot().LoadStates.Refresh.Err, boom)
}

func TestCatalog_ToggleBookmark(t *testing.T) {
	c := New(new(MockFeedClient), testStore(t), 10)
	ctx := context.Background()
	a := article("A", "https://a")

	action, err := c.ToggleBookmark(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, ActionSaved, action)

	saved, err := c.SelectArticle(ctx, a.URL)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, a, *saved)

	action, err = c.ToggleBookmark(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, ActionDeleted, action)

	saved, err = c.SelectArticle(ctx, a.URL)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCatalog_BookmarksLatestFirst(t *testing.T) {
	c := New(new(MockFeedClient), testStore(t), 10)
	ctx := context.Background()

	require.NoError(t, c.Upsert(ctx, article("A", "https://a")))
	require.NoError(t, c.Upsert(ctx, article("B", "https://b")))
	require.NoError(t, c.Upsert(ctx, article("C", "https://c")))

	stored, err := c.SelectArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(stored))

	bookmarks, err := c.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, titles(bookmarks))

	require.NoError(t, c.Delete(ctx, article("B", "https://b")))
	bookmarks, err = c.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, titles(bookmarks))
}

func TestCatalog_WatchBookmarks(t *testing.T) {
	c := New(new(MockFeedClient), testStore(t), 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := c.WatchBookmarks(ctx)
	require.NoError(t, err)

	first := <-updates
	assert.Empty(t, first)

	require.NoError(t, c.Upsert(ctx, article("A", "https://a")))
	require.NoError(t, c.Upsert(ctx, article("B", "https://b")))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-updates:
			if len(got) == 2 {
				assert.Equal(t, []string{"B", "A"}, titles(got))
				return
			}
		case <-deadline:
			t.Fatal("watch never reported both bookmarks")
		}
	}
}

func TestCatalog_SeedDemo(t *testing.T) {
	c := New(new(MockFeedClient), testStore(t), 10)
	ctx := context.Background()

	require.NoError(t, c.SeedDemo(ctx))
	require.NoError(t, c.SeedDemo(ctx))

	stored, err := c.SelectArticles(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, DemoArticle.URL, stored[0].URL)
	assert.Equal(t, "BBC", stored[0].Source.Name)
	assert.Equal(t, "Julian Lin", stored[0].Author)
}

func titles(articles []model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}
	return out
}
