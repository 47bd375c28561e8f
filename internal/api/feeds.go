package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

// session is one open feed screen. Its context lives until the session is
// closed, so closing cancels loads still in flight.
type session struct {
	id     string
	query  string
	pager  *paging.Pager[model.Article]
	ctx    context.Context
	cancel context.CancelFunc

	// Guarded by Server.mu.
	lastUsed time.Time
	inFlight int
}

type loadStateView struct {
	State                  string `json:"state"`
	EndOfPaginationReached bool   `json:"endOfPaginationReached"`
	Error                  string `json:"error,omitempty"`
}

type feedResponse struct {
	ID       string          `json:"id"`
	Query    string          `json:"query,omitempty"`
	Articles []model.Article `json:"articles"`
	Refresh  loadStateView   `json:"refresh"`
	Append   loadStateView   `json:"append"`
	Prefetch bool            `json:"prefetch,omitempty"`
}

type createFeedRequest struct {
	Query string `json:"query"`
}

func viewLoadState(s paging.LoadState) loadStateView {
	v := loadStateView{
		State:                  s.Kind.String(),
		EndOfPaginationReached: s.EndOfPaginationReached,
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}

func (sess *session) response() feedResponse {
	snap := sess.pager.Snapshot()
	articles := snap.Items
	if articles == nil {
		articles = []model.Article{}
	}
	return feedResponse{
		ID:       sess.id,
		Query:    sess.query,
		Articles: articles,
		Refresh:  viewLoadState(snap.LoadStates.Refresh),
		Append:   viewLoadState(snap.LoadStates.Append),
	}
}

// loadContext is canceled when either the session is closed or the client
// goes away.
func (sess *session) loadContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(sess.ctx)
	stop := context.AfterFunc(c.Request.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Server) createFeed(c *gin.Context) {
	var req createFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid body: "+err.Error())
		return
	}

	var pager *paging.Pager[model.Article]
	if req.Query != "" {
		pager = s.catalog.SearchNews(req.Query, s.sources)
	} else {
		pager = s.catalog.GetNews(s.sources)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:       uuid.NewString(),
		query:    req.Query,
		pager:    pager,
		ctx:      ctx,
		cancel:   cancel,
		lastUsed: s.now(),
		inFlight: 1,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	defer s.release(sess)

	loadCtx, done := sess.loadContext(c)
	defer done()

	// Load errors stay in the refresh state; the client retries.
	_ = pager.Refresh(loadCtx)

	c.JSON(http.StatusCreated, sess.response())
}

// session looks up the session named in the path and marks it as used.
func (s *Server) session(c *gin.Context) (*session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[c.Param("id")]
	if ok {
		sess.lastUsed = s.now()
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown feed session"})
	}
	return sess, ok
}

// getFeed returns the current snapshot. The optional position query records
// the item the client is showing and tells it whether to fetch the next page.
func (s *Server) getFeed(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var prefetch bool
	if raw := c.Query("position"); raw != "" {
		pos, err := strconv.Atoi(raw)
		if err != nil || pos < 0 {
			badRequest(c, "position must be a non-negative integer")
			return
		}
		prefetch = sess.pager.Access(pos)
	}

	resp := sess.response()
	resp.Prefetch = prefetch
	c.JSON(http.StatusOK, resp)
}

func (s *Server) nextPage(c *gin.Context) {
	s.load(c, (*paging.Pager[model.Article]).Append)
}

func (s *Server) refreshFeed(c *gin.Context) {
	s.load(c, (*paging.Pager[model.Article]).Refresh)
}

func (s *Server) retryFeed(c *gin.Context) {
	s.load(c, (*paging.Pager[model.Article]).Retry)
}

func (s *Server) load(c *gin.Context, op func(*paging.Pager[model.Article], context.Context) error) {
	sess, ok := s.acquire(c)
	if !ok {
		return
	}
	defer s.release(sess)

	ctx, done := sess.loadContext(c)
	defer done()

	_ = op(sess.pager, ctx)

	c.JSON(http.StatusOK, sess.response())
}

func (s *Server) closeFeed(c *gin.Context) {
	s.mu.Lock()
	sess, ok := s.sessions[c.Param("id")]
	delete(s.sessions, c.Param("id"))
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown feed session"})
		return
	}

	sess.cancel()
	c.Status(http.StatusNoContent)
}
