package model

import (
	"time"
	"unicode/utf8"
)

// AnonymousChatID is the chat id carried by messages of an anonymous session,
// which never has a persisted chat.
const AnonymousChatID = "anonymous"

// NewChatTitle is the title given to chats created explicitly by the user
// rather than by a first message.
const NewChatTitle = "New Chat"

// MaxTitleLength is the number of visible characters kept from the first
// message when it becomes a chat title.
const MaxTitleLength = 50

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Chat stores metadata about a persisted conversation.
type Chat struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Provider     Provider  `json:"provider"`
	MessageCount int       `json:"message_count"`
	LastMessage  string    `json:"last_message,omitempty"`
}

// Message is a single, immutable chat message.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Provider  Provider  `json:"provider"`
	ChatID    string    `json:"chat_id"`
	UserID    string    `json:"user_id,omitempty"`
}

// ChatTitle derives a chat title from the first message of a conversation.
// Text longer than MaxTitleLength runes is cut and suffixed with "...".
func ChatTitle(text string) string {
	if utf8.RuneCountInString(text) <= MaxTitleLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTitleLength]) + "..."
}
