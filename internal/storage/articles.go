package storage

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/0x0BSoD/newsApp/internal/model"
)

// ArticleStorage is the table of saved articles, one row per URL. Rows are
// listed in the order they were last written.
type ArticleStorage struct {
	db *sqlx.DB

	mu      sync.Mutex
	lastSeq int64
	subs    map[chan struct{}]struct{}
}

func NewArticleStorage(db *sqlx.DB) *ArticleStorage {
	return &ArticleStorage{
		db:   db,
		subs: make(map[chan struct{}]struct{}),
	}
}

type dbArticle struct {
	URL         string         `db:"url"`
	Author      sql.NullString `db:"author"`
	Content     string         `db:"content"`
	Description string         `db:"description"`
	PublishedAt string         `db:"published_at"`
	Source      string         `db:"source"`
	Title       string         `db:"title"`
	URLToImage  string         `db:"url_to_image"`
	SavedAt     int64          `db:"saved_at"`
}

func toDB(a model.Article, savedAt int64) dbArticle {
	return dbArticle{
		URL:         a.URL,
		Author:      sql.NullString{String: a.Author, Valid: a.Author != ""},
		Content:     a.Content,
		Description: a.Description,
		PublishedAt: a.PublishedAt,
		Source:      EncodeSource(a.Source),
		Title:       a.Title,
		URLToImage:  a.URLToImage,
		SavedAt:     savedAt,
	}
}

func (a dbArticle) model() model.Article {
	return model.Article{
		Author:      a.Author.String,
		Content:     a.Content,
		Description: a.Description,
		PublishedAt: a.PublishedAt,
		Source:      DecodeSource(a.Source),
		Title:       a.Title,
		URL:         a.URL,
		URLToImage:  a.URLToImage,
	}
}

const articleColumns = `url, author, content, description, published_at, source, title, url_to_image, saved_at`

// Upsert inserts the article or replaces the row with the same URL. The
// written row moves to the end of the listing.
func (s *ArticleStorage) Upsert(ctx context.Context, article model.Article) error {
	row := toDB(article, s.nextSeq())

	if _, err := s.db.NamedExecContext(ctx,
		`INSERT INTO articles (`+articleColumns+`)
		VALUES (:url, :author, :content, :description, :published_at, :source, :title, :url_to_image, :saved_at)
		ON CONFLICT (url) DO UPDATE SET
			author = excluded.author,
			content = excluded.content,
			description = excluded.description,
			published_at = excluded.published_at,
			source = excluded.source,
			title = excluded.title,
			url_to_image = excluded.url_to_image,
			saved_at = excluded.saved_at`,
		row,
	); err != nil {
		return &Error{Op: "upsert article", Err: err}
	}

	s.notify()
	return nil
}

// Delete removes the row with the article's URL. Deleting a missing article
// is not an error.
func (s *ArticleStorage) Delete(ctx context.Context, article model.Article) error {
	if _, err := s.db.ExecContext(ctx,
		s.db.Rebind(`DELETE FROM articles WHERE url = ?`),
		article.URL,
	); err != nil {
		return &Error{Op: "delete article", Err: err}
	}

	s.notify()
	return nil
}

func (s *ArticleStorage) Articles(ctx context.Context) ([]model.Article, error) {
	var rows []dbArticle
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT `+articleColumns+` FROM articles ORDER BY saved_at, url`,
	); err != nil {
		return nil, &Error{Op: "select articles", Err: err}
	}

	return lo.Map(rows, func(r dbArticle, _ int) model.Article { return r.model() }), nil
}

// ArticleByURL returns nil without an error when no row has that URL.
func (s *ArticleStorage) ArticleByURL(ctx context.Context, url string) (*model.Article, error) {
	var row dbArticle
	if err := s.db.GetContext(ctx, &row,
		s.db.Rebind(`SELECT `+articleColumns+` FROM articles WHERE url = ?`),
		url,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &Error{Op: "select article", Err: err}
	}

	article := row.model()
	return &article, nil
}

// Watch streams the full article list: the current rows first, then a fresh
// list after every write made through this storage. Lists are conflated, a
// slow reader gets the newest one. Read failures are logged and retried on
// the next write. The channel is closed when ctx is done.
func (s *ArticleStorage) Watch(ctx context.Context) (<-chan []model.Article, error) {
	signal := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[signal] = struct{}{}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.subs, signal)
		s.mu.Unlock()
	}

	initial, err := s.Articles(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	out := make(chan []model.Article)
	go func() {
		defer close(out)
		defer unsubscribe()

		current := initial
		for {
			select {
			case <-ctx.Done():
				return
			case out <- current:
			}

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}

			next, err := s.Articles(ctx)
			for err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("[ERROR] failed to reload watched articles: %v", err)

				select {
				case <-ctx.Done():
					return
				case <-signal:
				}
				next, err = s.Articles(ctx)
			}
			current = next
		}
	}()

	return out, nil
}

func (s *ArticleStorage) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for signal := range s.subs {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
}

// nextSeq returns a strictly increasing write sequence based on wall time.
func (s *ArticleStorage) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := time.Now().UnixNano()
	if seq <= s.lastSeq {
		seq = s.lastSeq + 1
	}
	s.lastSeq = seq
	return seq
}
