// Package reader builds the detail view of an article: its readable text and,
// when a summarizer is configured, a short summary.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/0x0BSoD/newsApp/internal/model"
	"github.com/0x0BSoD/newsApp/internal/summary"
)

type Details struct {
	Article model.Article `json:"article"`
	Text    string        `json:"text"`
	Summary string        `json:"summary,omitempty"`
	// Extracted is false when Text falls back to the article content.
	Extracted bool `json:"extracted"`
}

type Reader struct {
	client     *http.Client
	summarizer summary.Summarizer
}

// New returns a Reader. summarizer may be nil.
func New(client *http.Client, summarizer summary.Summarizer) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{client: client, summarizer: summarizer}
}

func (r *Reader) Details(ctx context.Context, article model.Article) (Details, error) {
	details := Details{Article: article}

	text, err := r.extract(ctx, article.URL)
	switch {
	case err == nil && text != "":
		details.Text = text
		details.Extracted = true
	case ctx.Err() != nil:
		return Details{}, ctx.Err()
	default:
		if err != nil {
			slog.Warn("failed to extract article text", "url", article.URL, "err", err)
		}
		details.Text = fallbackText(article)
	}

	if r.summarizer == nil || details.Text == "" {
		return details, nil
	}

	s, err := r.summarizer.Summarize(ctx, details.Text)
	if err != nil {
		slog.Error("failed to summarize article", "url", article.URL, "err", err)
		return details, nil
	}
	details.Summary = s

	return details, nil
}

var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func (r *Reader) extract(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	doc, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	return cleanupText(doc.TextContent), nil
}

func fallbackText(article model.Article) string {
	if article.Content != "" {
		return article.Content
	}
	return article.Description
}

func cleanupText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n"))
}
