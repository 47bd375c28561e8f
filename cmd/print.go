package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

func printArticle(w io.Writer, index int, a model.Article) {
	fmt.Fprintf(w, "%3d. %s\n", index, a.Title)

	var meta []string
	if a.Source.Name != "" {
		meta = append(meta, a.Source.Name)
	}
	if a.Author != "" {
		meta = append(meta, a.Author)
	}
	if published := formatPublished(a.PublishedAt); published != "" {
		meta = append(meta, published)
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "     %s\n", strings.Join(meta, " · "))
	}
	fmt.Fprintf(w, "     %s\n", a.URL)
}

func printArticles(w io.Writer, from int, articles []model.Article) {
	for i, a := range articles {
		printArticle(w, from+i+1, a)
	}
}

// formatPublished shortens RFC 3339 timestamps and passes anything else
// through unchanged.
func formatPublished(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func describeStates(s paging.LoadStates) string {
	switch {
	case s.Refresh.Kind == paging.Error:
		return fmt.Sprintf("failed to load news: %v", s.Refresh.Err)
	case s.Append.Kind == paging.Error:
		return fmt.Sprintf("failed to load more: %v", s.Append.Err)
	case s.Append.EndOfPaginationReached:
		return "end of feed"
	default:
		return ""
	}
}
