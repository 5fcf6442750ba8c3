package messaging

import "time"

// NotificationTypeMessage is the kind recorded for new-message notifications.
const NotificationTypeMessage = "message"

// Notification is the off-band record handed to the external Notifier when a
// receiver is not actively connected. It is created once per triggering
// message and carries no ordering or read invariants of its own.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessageNotification builds the notification for a committed message,
// linking back to its conversation.
func NewMessageNotification(id string, m Message, now time.Time) Notification {
	return Notification{
		ID:        id,
		UserID:    m.ReceiverID,
		Type:      NotificationTypeMessage,
		Title:     "New Message",
		Message:   "You have a new message",
		Link:      "/messages?conversation=" + m.ConversationID,
		CreatedAt: now,
	}
}
