package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/promodash/internal/binding"
)

// sessionStore keeps one binding.Session per browser. New sessions fork a
// template rendered once from the defaults. At most max sessions are held;
// when full, expired sessions are swept first and then the least recently
// used one is evicted.
type sessionStore struct {
	template *binding.Session
	defaults binding.Selection
	ttl      time.Duration
	max      int

	mu       sync.Mutex
	sessions map[string]*binding.Session
}

func newSessionStore(template *binding.Session, defaults binding.Selection, ttl time.Duration, max int) *sessionStore {
	return &sessionStore{
		template: template,
		defaults: defaults,
		ttl:      ttl,
		max:      max,
		sessions: make(map[string]*binding.Session),
	}
}

func (st *sessionStore) get(id string) (*binding.Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *sessionStore) create() (string, *binding.Session) {
	s := st.template.Fork()
	id := uuid.NewString()
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.max > 0 && len(st.sessions) >= st.max {
		if st.sweepLocked(time.Now()) == 0 {
			st.evictOldestLocked()
		}
	}
	st.sessions[id] = s
	return id, s
}

func (st *sessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range st.sessions {
		if seen := s.IdleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweep drops sessions idle for longer than the ttl and returns how many
// were removed.
func (st *sessionStore) sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(now)
}

func (st *sessionStore) sweepLocked(now time.Time) int {
	n := 0
	for id, s := range st.sessions {
		if now.Sub(s.IdleSince()) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

func (st *sessionStore) janitor(ctx context.Context, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.sweep(now); n > 0 {
				log.Debug("evicted idle sessions", "count", n, "remaining", st.len())
			}
		}
	}
}
