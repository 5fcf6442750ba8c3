package messaging

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. After creation the
// only mutation allowed is the one-way read transition false -> true.
// CreatedAt is assigned by the storage commit clock, never by callers.
type Message struct {
	ID             string     `db:"id"`
	ConversationID string     `db:"conversation_id"`
	SenderID       string     `db:"sender_id"`
	ReceiverID     string     `db:"receiver_id"`
	Content        string     `db:"content"`
	Read           bool       `db:"read"`
	ReadAt         *time.Time `db:"read_at"`
	CreatedAt      time.Time  `db:"created_at"`
}

// NewMessage validates and shapes a message ready to persist. Content is
// trimmed; a message that is blank after trimming is rejected.
func NewMessage(conversationID, senderID, receiverID, content string) (*Message, error) {
	if conversationID == "" || senderID == "" || receiverID == "" {
		return nil, ErrInvalidParticipants
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyContent
	}
	return &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        trimmed,
	}, nil
}
