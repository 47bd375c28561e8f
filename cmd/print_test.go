package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0x0BSoD/newsApp/internal/catalog"
	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/paging"
)

func TestPrintArticles(t *testing.T) {
	var buf bytes.Buffer
	printArticles(&buf, 10, []model.Article{catalog.DemoArticle, {Title: "Bare", URL: "https://b"}})

	assert.Equal(t,
		" 11. SolarEdge: I Was So Wrong, But This Is Too Much\n"+
			"     BBC · Julian Lin · 2024-01-01 09:15\n"+
			"     https://seekingalpha.com/article/4660590-solaredge-i-was-so-wrong-but-this-is-too-much\n"+
			" 12. Bare\n"+
			"     https://b\n",
		buf.String())
}

func TestFormatPublished(t *testing.T) {
	assert.Equal(t, "2024-01-01 09:15", formatPublished("2024-01-01T09:15:34Z"))
	assert.Equal(t, "2024-01-01 07:15", formatPublished("2024-01-01T09:15:34+02:00"))
	assert.Equal(t, "yesterday", formatPublished("yesterday"))
	assert.Empty(t, formatPublished(""))
}

func TestDescribeStates(t *testing.T) {
	boom := errors.New("timeout")
	tests := []struct {
		name   string
		states paging.LoadStates
		want   string
	}{
		{name: "idle", want: ""},
		{name: "refresh error", states: paging.LoadStates{Refresh: paging.LoadState{Kind: paging.Error, Err: boom}}, want: "failed to load news: timeout"},
		{name: "append error", states: paging.LoadStates{Append: paging.LoadState{Kind: paging.Error, Err: boom}}, want: "failed to load more: timeout"},
		{name: "end", states: paging.LoadStates{Append: paging.LoadState{EndOfPaginationReached: true}}, want: "end of feed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeStates(tt.states))
		})
	}
}
