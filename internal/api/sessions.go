package api

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

const DefaultIdleTimeout = 30 * time.Minute

// acquire is session plus an in-flight mark; a session with a running load
// is never evicted.
func (s *Server) acquire(c *gin.Context) (*session, bool) {
	sess, ok := s.session(c)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	sess.inFlight++
	s.mu.Unlock()
	return sess, true
}

func (s *Server) release(sess *session) {
	s.mu.Lock()
	sess.inFlight--
	sess.lastUsed = s.now()
	s.mu.Unlock()
}

// Start evicts idle feed sessions until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	log.Printf("[INFO] feed session sweeper started (idle timeout %s)", s.idleTimeout)

	ticker := time.NewTicker(s.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				log.Printf("[INFO] evicted %d idle feed sessions", n)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// EvictIdle closes every session unused for longer than the idle timeout
// and returns how many were closed.
func (s *Server) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.idleTimeout)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.inFlight > 0 || sess.lastUsed.After(deadline) {
			continue
		}
		sess.cancel()
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
