package reader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/newsApp/internal/model"
)

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

const paragraph = "SolarEdge shares fell sharply over the year as inventory piled up across European distributors, and management warned that the slowdown in residential solar demand would last well into the next quarter."

func articlePage() string {
	var b strings.Builder
	b.WriteString("<html><head><title>SolarEdge</title></head><body><nav>Home | World | Business</nav><article><h1>SolarEdge: I Was So Wrong</h1>")
	for range 6 {
		b.WriteString("<p>" + paragraph + "</p>\n\n\n\n")
	}
	b.WriteString("</article><footer>Copyright</footer></body></html>")
	return b.String()
}

func TestReader_Details(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	summarizer := new(MockSummarizer)
	summarizer.On("Summarize", mock.Anything, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, paragraph)
	})).Return("Demand slowed.", nil)

	d, err := New(srv.Client(), summarizer).Details(context.Background(), model.Article{URL: srv.URL + "/a", Content: "short"})
	require.NoError(t, err)

	assert.True(t, d.Extracted)
	assert.Contains(t, d.Text, paragraph)
	assert.NotContains(t, d.Text, "\n\n\n")
	assert.Equal(t, "Demand slowed.", d.Summary)
	summarizer.AssertExpectations(t)
}

func TestReader_FallsBackToContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	article := model.Article{URL: srv.URL, Content: "Is there a more beaten-down growth stock?", Description: "desc"}
	d, err := New(srv.Client(), nil).Details(context.Background(), article)
	require.NoError(t, err)

	assert.False(t, d.Extracted)
	assert.Equal(t, article.Content, d.Text)
	assert.Empty(t, d.Summary)
	assert.Equal(t, article, d.Article)
}

func TestReader_FallsBackToDescription(t *testing.T) {
	d, err := New(nil, nil).Details(context.Background(), model.Article{URL: "://bad", Description: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "desc", d.Text)
}

func TestReader_SummaryFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	summarizer := new(MockSummarizer)
	summarizer.On("Summarize", mock.Anything, "content").Return("", errors.New("model offline"))

	d, err := New(srv.Client(), summarizer).Details(context.Background(), model.Article{URL: srv.URL, Content: "content"})
	require.NoError(t, err)
	assert.Equal(t, "content", d.Text)
	assert.Empty(t, d.Summary)
	summarizer.AssertExpectations(t)
}

func TestReader_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage()))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.Client(), nil).Details(ctx, model.Article{URL: srv.URL, Content: "content"})
	assert.ErrorIs(t, err, context.Canceled)
}
