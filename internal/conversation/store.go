package conversation

import (
	"slices"

	"omnichat/backend/internal/gateway"
	"omnichat/backend/internal/model"
)

// sessionStore is the message store backing a session. Exactly one variant
// is active at a time: *anonymousStore or *remoteStore. A nil store means the
// session has no identity yet.
type sessionStore interface {
	mode() Mode
}

// anonymousStore keeps an in-memory conversation that is never persisted.
// Clearing replaces the whole store so in-flight sends targeting the old
// instance are discarded.
type anonymousStore struct {
	messages []model.Message
}

func (*anonymousStore) mode() Mode { return ModeAnonymous }

// remoteStore mirrors the persisted chats of a signed-in user through
// gateway subscriptions.
type remoteStore struct {
	userID     string
	chats      []model.Chat
	unsubChats gateway.Unsubscribe

	chatID        string
	msgGen        uint64
	unsubMessages gateway.Unsubscribe
	// confirmed is the latest snapshot pushed by the gateway.
	confirmed []model.Message
	// pending holds local messages not yet seen in a snapshot.
	pending []model.Message
}

func (*remoteStore) mode() Mode { return ModeAuthenticated }

func (rs *remoteStore) messages() []model.Message {
	out := make([]model.Message, 0, len(rs.confirmed)+len(rs.pending))
	out = append(out, rs.confirmed...)
	return append(out, rs.pending...)
}

func (rs *remoteStore) ownsChat(chatID string) bool {
	if chatID == rs.chatID {
		return true
	}
	return slices.ContainsFunc(rs.chats, func(c model.Chat) bool { return c.ID == chatID })
}

// switchChat points the store at chatID, dropping the previous chat's
// messages. It returns the superseded message subscription, which the
// caller must stop after releasing the manager lock.
func (rs *remoteStore) switchChat(chatID string) (gen uint64, old gateway.Unsubscribe) {
	old = rs.unsubMessages
	rs.unsubMessages = nil
	rs.chatID = chatID
	rs.confirmed = nil
	rs.pending = nil
	rs.msgGen++
	return rs.msgGen, old
}

// reconcile installs a gateway snapshot. Snapshots always replace the
// confirmed list. A pending message is dropped once the snapshot holds a
// message from the same sender with the same text stamped no earlier than
// the pending one; each snapshot message confirms at most one pending entry.
func (rs *remoteStore) reconcile(snapshot []model.Message) {
	rs.confirmed = slices.Clone(snapshot)
	if len(rs.pending) == 0 {
		return
	}

	used := make([]bool, len(snapshot))
	kept := rs.pending[:0]
	for _, p := range rs.pending {
		matched := false
		for i, s := range snapshot {
			if used[i] || s.Sender != p.Sender || s.Text != p.Text || s.Timestamp.Before(p.Timestamp) {
				continue
			}
			used[i] = true
			matched = true
			break
		}
		if !matched {
			kept = append(kept, p)
		}
	}
	rs.pending = kept
}

func (rs *remoteStore) removePending(id string) {
	rs.pending = slices.DeleteFunc(rs.pending, func(m model.Message) bool { return m.ID == id })
}

func (rs *remoteStore) teardown() []gateway.Unsubscribe {
	var unsubs []gateway.Unsubscribe
	if rs.unsubMessages != nil {
		unsubs = append(unsubs, rs.unsubMessages)
		rs.unsubMessages = nil
	}
	if rs.unsubChats != nil {
		unsubs = append(unsubs, rs.unsubChats)
		rs.unsubChats = nil
	}
	rs.msgGen++
	return unsubs
}
