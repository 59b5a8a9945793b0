package chat

import (
	"time"

	"campus-chat/internal/user"
)

// ---------------------------------------------
// Conversation model
// ---------------------------------------------

type Type string

const (
	TypePrivate Type = "private"
	TypeGroup   Type = "group"
)

// Attachment is an uploaded file. The core only looks at the declared name
// and MIME type; the bytes live behind URL.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	URL      string `json:"url"`
}

type Message struct {
	ID       string      `json:"id"`
	SenderID string      `json:"sender_id"`
	Text     string      `json:"text,omitempty"`
	File     *Attachment `json:"file,omitempty"`
	// Seq orders messages across the whole store. Sorting never looks at
	// Timestamp, which is display text only.
	Seq       int64     `json:"seq"`
	SentAt    time.Time `json:"sent_at"`
	Timestamp string    `json:"timestamp"`
	Read      bool      `json:"read"`
}

func (m Message) hasContent() bool {
	return m.Text != "" || m.File != nil
}

type Chat struct {
	ID             string        `json:"id"`
	Type           Type          `json:"type"`
	ParticipantIDs []string      `json:"participant_ids"`
	Messages       []Message     `json:"messages"`
	Topic          user.Category `json:"topic,omitempty"`
	Name           string        `json:"name,omitempty"`
	AvatarURL      string        `json:"avatar_url,omitempty"`
	CreatorID      string        `json:"creator_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LastActivity is the Seq of the newest message, or 0 for an empty chat.
func (c *Chat) LastActivity() int64 {
	if n := len(c.Messages); n > 0 {
		return c.Messages[n-1].Seq
	}
	return 0
}

func (c *Chat) LastMessage() (Message, bool) {
	if n := len(c.Messages); n > 0 {
		return c.Messages[n-1], true
	}
	return Message{}, false
}

func (c *Chat) clone() Chat {
	out := *c
	out.ParticipantIDs = append([]string(nil), c.ParticipantIDs...)
	out.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		if m.File != nil {
			f := *m.File
			m.File = &f
		}
		out.Messages[i] = m
	}
	return out
}

// GroupMeta carries optional group changes; nil fields are left alone.
type GroupMeta struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ---------------------------------------------
// Realtime events
// ---------------------------------------------

type EventKind string

const (
	EventMessage EventKind = "message"
	EventTyping  EventKind = "typing"
	EventChat    EventKind = "chat"
	// EventError goes back to the one socket whose frame was rejected.
	EventError EventKind = "error"
)

// Event is pushed to every connected participant of a chat.
type Event struct {
	Kind    EventKind `json:"kind"`
	ChatID  string    `json:"chat_id"`
	Message *Message  `json:"message,omitempty"`
	Chat    *Chat     `json:"chat,omitempty"`
	// Pending mirrors the chat's pending-response flag for typing events.
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`

	Recipients []string `json:"-"`
}

// WSMessage is what the browser sends over the socket.
type WSMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}
