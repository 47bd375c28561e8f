// Package api exposes feed sessions and bookmarks over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/0x0BSoD/newsApp/internal/catalog"
	"github.com/0x0BSoD/newsApp/internal/connectivity"
	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
	"github.com/0x0BSoD/newsApp/internal/storage"
)

type Catalog interface {
	GetNews(sources []string) *paging.Pager[model.Article]
	SearchNews(query string, sources []string) *paging.Pager[model.Article]
	Bookmarks(ctx context.Context) ([]model.Article, error)
	SelectArticle(ctx context.Context, url string) (*model.Article, error)
	Upsert(ctx context.Context, article model.Article) error
	Delete(ctx context.Context, article model.Article) error
	ToggleBookmark(ctx context.Context, article model.Article) (catalog.BookmarkAction, error)
}

type StateProvider interface {
	State() connectivity.State
}

type Reporter interface {
	Notify(msg string)
}

type nopReporter struct{}

func (nopReporter) Notify(string) {}

type Server struct {
	catalog  Catalog
	sources  []string
	monitor  StateProvider
	reporter Reporter

	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Server)

func WithMonitor(m StateProvider) Option {
	return func(s *Server) { s.monitor = m }
}

// WithReporter forwards storage failures to r.
func WithReporter(r Reporter) Option {
	return func(s *Server) { s.reporter = r }
}

// WithIdleTimeout sets how long an unused feed session is kept.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}

func New(c Catalog, sources []string, opts ...Option) *Server {
	s := &Server{
		catalog:     c,
		sources:     sources,
		reporter:    nopReporter{},
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)

	v1 := router.Group("/api/v1")
	{
		feeds := v1.Group("/feeds")
		feeds.POST("", s.createFeed)
		feeds.GET("/:id", s.getFeed)
		feeds.POST("/:id/next", s.nextPage)
		feeds.POST("/:id/refresh", s.refreshFeed)
		feeds.POST("/:id/retry", s.retryFeed)
		feeds.DELETE("/:id", s.closeFeed)

		bookmarks := v1.Group("/bookmarks")
		bookmarks.GET("", s.listBookmarks)
		bookmarks.GET("/lookup", s.lookupBookmark)
		bookmarks.PUT("", s.saveBookmark)
		bookmarks.DELETE("", s.deleteBookmark)
		bookmarks.POST("/toggle", s.toggleBookmark)
	}

	return router
}

// Close cancels every open feed session.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
}

type healthResponse struct {
	Status       string             `json:"status"`
	Connectivity connectivity.State `json:"connectivity"`
}

func (s *Server) health(c *gin.Context) {
	state := connectivity.Unknown
	if s.monitor != nil {
		state = s.monitor.State()
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Connectivity: state})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case storage.IsStorageError(err):
		s.reporter.Notify(err.Error())
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusConflict, errorResponse{Error: "request canceled"})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
