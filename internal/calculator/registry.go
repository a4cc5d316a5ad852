package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-chi-calculator/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry keeps the open editing sessions of the HTTP API. Commands on one
// session run one at a time; different sessions do not block each other.
type Registry struct {
	recorder Recorder
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *Session
	lastUsed time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock overrides the clock used to track session activity.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry whose sessions report applied
// calculations to recorder (which may be nil).
func NewRegistry(recorder Recorder, opts ...RegistryOption) *Registry {
	r := &Registry{
		recorder: recorder,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a new empty session.
func (r *Registry) Create(ctx context.Context) (string, State) {
	id := uuid.NewString()
	s := NewSession(r.recorder)

	r.mu.Lock()
	r.sessions[id] = &sessionEntry{session: s, lastUsed: r.now()}
	r.mu.Unlock()

	sessionsGauge.Add(ctx, 1)
	return id, s.State()
}

// Exists reports whether id names an open session.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// Do runs fn against the session with exclusive access and returns the
// resulting state. The state is returned even when fn fails.
func (r *Registry) Do(id string, fn func(*Session) error) (State, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return State{}, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	err := fn(e.session)
	e.lastUsed = r.now()
	return e.session.State(), err
}

// Delete closes a session.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sessionsGauge.Add(ctx, -1)
	return nil
}

// EvictIdle closes every session unused for longer than ttl and returns how
// many were closed.
func (r *Registry) EvictIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()

		if idle {
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		sessionsGauge.Add(ctx, int64(-evicted))
	}
	return evicted
}

// ExpireIdle runs EvictIdle every interval until ctx is done. A ttl of zero
// keeps sessions until they are deleted.
func (r *Registry) ExpireIdle(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(ctx, ttl); n > 0 {
				observability.Logger.Info("idle sessions evicted",
					zap.Int("count", n),
					zap.Duration("ttl", ttl),
				)
			}
		}
	}
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
