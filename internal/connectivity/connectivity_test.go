package connectivity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Check(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	var (
		mu          sync.Mutex
		transitions [][2]State
	)
	m := New(srv.URL, time.Hour, OnChange(func(from, to State) {
		mu.Lock()
		defer mu.Unlock()
		transitions = append(transitions, [2]State{from, to})
	}))

	assert.Equal(t, Unknown, m.State())
	assert.Equal(t, Connected, m.Check(context.Background()))
	assert.Equal(t, Connected, m.Check(context.Background()))

	srv.Close()
	assert.Equal(t, NoInternet, m.Check(context.Background()))
	assert.Equal(t, NoInternet, m.State())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][2]State{{Unknown, Connected}, {Connected, NoInternet}}, transitions)
}

func TestMonitor_Start(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	m := New(srv.URL, 10*time.Millisecond, WithHTTPClient(srv.Client()))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	require.Eventually(t, func() bool { return m.State() == Connected }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
}

func TestMonitor_CanceledCheckKeepsState(t *testing.T) {
	m := New("http://127.0.0.1:1", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, Unknown, m.Check(ctx))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "no_internet", NoInternet.String())

	text, err := NoInternet.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "no_internet", string(text))
}
