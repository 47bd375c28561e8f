package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0x0BSoD/newsApp/internal/catalog"
	"github.com/0x0BSoD/newsApp/internal/model"
)

type toggleResponse struct {
	Action catalog.BookmarkAction `json:"action"`
}

func (s *Server) listBookmarks(c *gin.Context) {
	articles, err := s.catalog.Bookmarks(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if articles == nil {
		articles = []model.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) lookupBookmark(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		badRequest(c, "url is required")
		return
	}

	article, err := s.catalog.SelectArticle(c.Request.Context(), url)
	if err != nil {
		s.fail(c, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "article is not bookmarked"})
		return
	}
	c.JSON(http.StatusOK, article)
}

func bindArticle(c *gin.Context) (model.Article, bool) {
	var article model.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		badRequest(c, "invalid article: "+err.Error())
		return model.Article{}, false
	}
	if article.URL == "" {
		badRequest(c, "article url is required")
		return model.Article{}, false
	}
	return article, true
}

func (s *Server) saveBookmark(c *gin.Context) {
	article, ok := bindArticle(c)
	if !ok {
		return
	}

	if err := s.catalog.Upsert(c.Request.Context(), article); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) deleteBookmark(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		badRequest(c, "url is required")
		return
	}

	if err := s.catalog.Delete(c.Request.Context(), model.Article{URL: url}); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) toggleBookmark(c *gin.Context) {
	article, ok := bindArticle(c)
	if !ok {
		return
	}

	action, err := s.catalog.ToggleBookmark(c.Request.Context(), article)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toggleResponse{Action: action})
}
