package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "omnichat/backend/internal/errors"
)

func TestContext(t *testing.T) {
	c := NewContext()
	assert.Nil(t, c.Current())

	var seen []*User
	cancel := c.Watch(func(u *User) { seen = append(seen, u) })

	anon := &User{UID: "anon-1", IsAnonymous: true}
	c.Set(anon)
	c.Set(&User{UID: "anon-1", IsAnonymous: true, DisplayName: "ignored change"})
	c.Set(&User{UID: "user-1", Email: "a@b.c"})
	c.Set(nil)

	require.Len(t, seen, 3)
	assert.Equal(t, "anon-1", seen[0].UID)
	assert.Equal(t, "user-1", seen[1].UID)
	assert.False(t, seen[1].IsAnonymous)
	assert.Nil(t, seen[2])

	t.Run("Current returns a copy", func(t *testing.T) {
		c.Set(&User{UID: "user-2"})
		u := c.Current()
		u.UID = "mutated"
		assert.Equal(t, "user-2", c.Current().UID)
	})

	t.Run("Cancelled watcher is not called", func(t *testing.T) {
		before := len(seen)
		cancel()
		c.Set(&User{UID: "user-3"})
		assert.Len(t, seen, before)
	})
}

func TestSame(t *testing.T) {
	assert.True(t, Same(nil, nil))
	assert.False(t, Same(nil, &User{UID: "a"}))
	assert.True(t, Same(&User{UID: "a", Email: "x"}, &User{UID: "a", Email: "y"}))
	assert.False(t, Same(&User{UID: "a", IsAnonymous: true}, &User{UID: "a"}))
}

func TestTokenService(t *testing.T) {
	svc := NewTokenService("test-secret", "omnichat", time.Hour)

	t.Run("Round trip", func(t *testing.T) {
		token, err := svc.Issue(User{UID: "user-1", Email: "u@example.com", DisplayName: "U"})
		require.NoError(t, err)

		u, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, &User{UID: "user-1", Email: "u@example.com", DisplayName: "U"}, u)
	})

	t.Run("Anonymous identity", func(t *testing.T) {
		u, token, err := svc.IssueAnonymous()
		require.NoError(t, err)
		assert.True(t, u.IsAnonymous)
		assert.Contains(t, u.UID, "anon-")

		verified, err := svc.Verify(token)
		require.NoError(t, err)
		assert.True(t, verified.IsAnonymous)
		assert.Equal(t, u.UID, verified.UID)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "omnichat", time.Hour)
		token, err := other.Issue(User{UID: "user-1"})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		other := NewTokenService("test-secret", "someone-else", time.Hour)
		token, err := other.Issue(User{UID: "user-1"})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
	})

	t.Run("Expired", func(t *testing.T) {
		past := NewTokenService("test-secret", "omnichat", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.Issue(User{UID: "user-1"})
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
		assert.ErrorContains(t, err, "expired")
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
	})

	t.Run("Missing uid", func(t *testing.T) {
		_, err := svc.Issue(User{})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}
