// Package identity verifies caller identity tokens and holds the current
// identity of a session in an observable Context.
package identity

import "sync"

// User is the identity behind a session.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Same reports whether a and b are the same identity for session purposes:
// same uid and same anonymity. Profile fields are ignored.
func Same(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UID == b.UID && a.IsAnonymous == b.IsAnonymous
}

// Context holds the current user of one session and notifies watchers when
// it changes. The zero value is not usable; call NewContext.
type Context struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	user     *User
	watchers map[int]func(*User)
	nextID   int
}

func NewContext() *Context {
	return &Context{watchers: make(map[int]func(*User))}
}

// Current returns a copy of the current user, or nil when signed out.
func (c *Context) Current() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.user)
}

// Set replaces the current user. Watchers run synchronously and in no
// particular order, and only when the identity actually changed. Concurrent
// calls are serialized so watchers observe one transition at a time.
func (c *Context) Set(u *User) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if Same(c.user, u) {
		c.user = clone(u)
		c.mu.Unlock()
		return
	}
	c.user = clone(u)
	watchers := make([]func(*User), 0, len(c.watchers))
	for _, w := range c.watchers {
		watchers = append(watchers, w)
	}
	c.mu.Unlock()

	for _, w := range watchers {
		w(clone(u))
	}
}

// Watch registers fn for identity changes and returns a function that
// removes it.
func (c *Context) Watch(fn func(*User)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

func clone(u *User) *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
