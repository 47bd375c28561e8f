// Package connectivity reports whether the news backend is reachable.
package connectivity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

type State int

const (
	Unknown State = iota
	Connected
	NoInternet
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case NoInternet:
		return "no_internet"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Monitor struct {
	client   *http.Client
	url      string
	interval time.Duration
	onChange func(from, to State)

	mu    sync.RWMutex
	state State
}

type Option func(*Monitor)

func WithHTTPClient(c *http.Client) Option {
	return func(m *Monitor) { m.client = c }
}

// OnChange registers fn to be called after every state transition.
func OnChange(fn func(from, to State)) Option {
	return func(m *Monitor) { m.onChange = fn }
}

func New(url string, interval time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		client:   &http.Client{Timeout: 10 * time.Second},
		url:      url,
		interval: interval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// Start checks immediately and then on every interval until ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	log.Printf("[INFO] connectivity monitor started for %s", m.url)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Check sends a single request and returns the resulting state.
func (m *Monitor) Check(ctx context.Context) State {
	next := NoInternet
	if m.reachable(ctx) {
		next = Connected
	}
	if ctx.Err() != nil {
		return m.State()
	}

	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		log.Printf("[INFO] connectivity changed: %s -> %s", prev, next)
		if m.onChange != nil {
			m.onChange(prev, next)
		}
	}

	return next
}

// reachable treats any HTTP response as reachable; only transport failures count
// as offline.
func (m *Monitor) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return true
}
