// Package session keeps one conversation manager per browser tab session and
// closes the ones that have gone idle.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"omnichat/backend/internal/conversation"
	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/interfaces"
)

// ErrClosed is returned by Acquire and Hold after Close.
var ErrClosed = fmt.Errorf("%w: session registry closed", app_errors.ErrConflict)

// Factory builds the manager of a new session around its identity context.
type Factory func(ids *identity.Context) *conversation.Manager

type entry struct {
	ids      *identity.Context
	mgr      *conversation.Manager
	lastUsed time.Time
	holds    int
}

// Registry maps (user, session id) pairs to conversation managers. Scoping by
// user means a session id presented with another user's token never reaches
// the first user's session; the only way to change a session's identity is Rebind.
type Registry struct {
	newManager Factory
	idleTTL    time.Duration
	now        func() time.Time

	mu       sync.Mutex
	closed   bool
	sessions map[string]*entry
}

type Option func(*Registry)

// WithClock overrides the time source used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(factory Factory, idleTTL time.Duration, opts ...Option) *Registry {
	r := &Registry{
		newManager: factory,
		idleTTL:    idleTTL,
		now:        time.Now,
		sessions:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func key(sessionID, uid string) string {
	if sessionID == "" {
		return uid
	}
	return uid + "/" + sessionID
}

// Acquire returns the session for the caller, creating it on first use. The
// user is fed into the session's identity context on every call, so profile
// changes in a refreshed token reach the session.
func (r *Registry) Acquire(sessionID string, user *identity.User) (interfaces.ConversationSession, error) {
	e, err := r.enter(sessionID, user, false)
	if err != nil {
		return nil, err
	}
	return e.mgr, nil
}

// Hold is like Acquire, but the session is exempt from sweeping until the
// returned release function is called.
func (r *Registry) Hold(sessionID string, user *identity.User) (interfaces.ConversationSession, func(), error) {
	e, err := r.enter(sessionID, user, true)
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			e.holds--
			e.lastUsed = r.now()
			r.mu.Unlock()
		})
	}
	return e.mgr, release, nil
}

func (r *Registry) enter(sessionID string, user *identity.User, hold bool) (*entry, error) {
	if user == nil || user.UID == "" {
		return nil, conversation.ErrNoIdentity
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	k := key(sessionID, user.UID)
	e, ok := r.sessions[k]
	if !ok {
		ids := identity.NewContext()
		ids.Set(user)
		e = &entry{ids: ids, mgr: r.newManager(ids)}
		r.sessions[k] = e
		slog.Info("Session created", "session_id", sessionID, "user_id", user.UID, "anonymous", user.IsAnonymous)
	}
	e.lastUsed = r.now()
	if hold {
		e.holds++
	}
	r.mu.Unlock()

	e.ids.Set(user)
	return e, nil
}

// Rebind hands the session opened by fromUID over to the user to, driving the
// session's identity transition. It reports whether a session was moved. When
// to already has a session under the same id, the old one is closed instead.
func (r *Registry) Rebind(sessionID, fromUID string, to *identity.User) bool {
	if to == nil || to.UID == "" {
		return false
	}

	r.mu.Lock()
	from := key(sessionID, fromUID)
	e, ok := r.sessions[from]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, from)
	target := key(sessionID, to.UID)
	if _, taken := r.sessions[target]; taken {
		r.mu.Unlock()
		e.mgr.Close()
		return false
	}
	e.lastUsed = r.now()
	r.sessions[target] = e
	r.mu.Unlock()

	e.ids.Set(to)
	slog.Info("Session rebound", "session_id", sessionID, "from_user_id", fromUID, "user_id", to.UID)
	return true
}

// Sweep closes every session unused for longer than the idle TTL and returns
// how many were closed. Held sessions are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var stale []*entry
	for k, e := range r.sessions {
		if e.holds == 0 && e.lastUsed.Before(cutoff) {
			stale = append(stale, e)
			delete(r.sessions, k)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		e.mgr.Close()
	}
	return len(stale)
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("Closed idle sessions", "count", n)
			}
		}
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close closes every session. Later Acquire calls fail with ErrClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	all := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		all = append(all, e)
	}
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range all {
		e.mgr.Close()
	}
}
