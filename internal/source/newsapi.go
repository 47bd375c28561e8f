// Package source implements the remote feeds articles are paged from: the news API /everything endpoint and plain RSS feeds.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/0x0BSoD/newsApp/internal/model"
)

const DefaultBaseURL = "https://newsapi.org/v2/"

// NewsAPI talks to the /everything endpoint. It performs exactly one round
// trip per call and never retries.
type NewsAPI struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

type NewsAPIOption func(*NewsAPI)

func WithHTTPClient(c *http.Client) NewsAPIOption {
	return func(n *NewsAPI) { n.client = c }
}

// WithRequestInterval spaces consecutive requests at least interval apart.
func WithRequestInterval(interval time.Duration) NewsAPIOption {
	return func(n *NewsAPI) {
		if interval > 0 {
			n.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

func NewNewsAPI(baseURL, apiKey string, opts ...NewsAPIOption) (*NewsAPI, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	n := &NewsAPI{
		baseURL: u,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

func (n *NewsAPI) FetchPage(ctx context.Context, sources []string, page int) (model.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("sources", strings.Join(sources, ","))

	return n.get(ctx, "fetch page", q)
}

func (n *NewsAPI) SearchPage(ctx context.Context, query string, sources []string, page int) (model.Page, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("sources", strings.Join(sources, ","))

	return n.get(ctx, "search page", q)
}

// apiError is the body the news API sends with non-2xx responses.
type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (n *NewsAPI) get(ctx context.Context, op string, q url.Values) (model.Page, error) {
	q.Set("apiKey", n.apiKey)
	u := n.baseURL.ResolveReference(&url.URL{Path: "everything", RawQuery: q.Encode()})

	netErr := func(err error) *NetworkError {
		// *url.Error repeats the full request URL, api key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &NetworkError{Op: op, URL: redact(u), Err: err}
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return model.Page{}, netErr(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Page{}, netErr(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return model.Page{}, netErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := netErr(fmt.Errorf("unexpected status %d", resp.StatusCode))
		e.StatusCode = resp.StatusCode

		var body apiError
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
			e.Code, e.Message = body.Code, body.Message
		}
		return model.Page{}, e
	}

	var page model.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return model.Page{}, netErr(fmt.Errorf("decoding response: %w", err))
	}

	return page, nil
}
