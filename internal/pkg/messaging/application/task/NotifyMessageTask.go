package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	qport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/queue/port"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/collaborator"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

// NotifyMessageTaskType is the queue task name for off-band notification of
// a committed message.
const NotifyMessageTaskType = "messaging:notify_message"

const notifyQueue = "notify"

// NotifyMessagePayload is the JSON payload transported via the queue. Kept
// decoupled from domain types to avoid tight coupling with JSON tags.
type NotifyMessagePayload struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
}

// Enqueuer satisfies the send path's notification hook by scheduling a
// NotifyMessageTask on the queue.
type Enqueuer struct {
	Client qport.Client
}

func NewEnqueuer(client qport.Client) *Enqueuer {
	return &Enqueuer{Client: client}
}

func (e *Enqueuer) EnqueueMessageNotification(ctx context.Context, m messaging.Message) error {
	payload, err := json.Marshal(NotifyMessagePayload{
		MessageID:      m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
	})
	if err != nil {
		return err
	}
	opts := qport.EnqueueOption{Queue: notifyQueue, MaxRetry: 5}
	_, err = e.Client.Enqueue(ctx, qport.Task{Type: NotifyMessageTaskType, Payload: payload}, opts)
	return err
}

// RegisterNotifyMessageTask binds the task handler to the provided server.
// The handler builds the notification record and forwards it to the external
// Notifier. A delivery failure is logged and returned so the queue retries
// it within its bounded policy; it never reaches back into the send path.
func RegisterNotifyMessageTask(srv qport.Server, notifier collaborator.Notifier, log *slog.Logger) {
	srv.Register(NotifyMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p NotifyMessagePayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			log.Error("notify task payload malformed", "error", err)
			return err
		}

		msg := messaging.Message{
			ID:             p.MessageID,
			ConversationID: p.ConversationID,
			SenderID:       p.SenderID,
			ReceiverID:     p.ReceiverID,
		}
		n := messaging.NewMessageNotification(uuid.NewString(), msg, time.Now().UTC())

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		err := notifier.Deliver(ctx, n.UserID, n.Type, map[string]string{
			"title":           n.Title,
			"message":         n.Message,
			"link":            n.Link,
			"conversation_id": p.ConversationID,
			"message_id":      p.MessageID,
		})
		if err != nil {
			log.Warn("notification delivery failed",
				"message_id", p.MessageID, "receiver_id", p.ReceiverID, "error", err)
			return err
		}
		return nil
	})
}
