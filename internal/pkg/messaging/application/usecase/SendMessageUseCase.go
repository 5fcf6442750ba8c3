package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

const (
	snippetMaxLen       = 80
	touchRetryAttempts  = 3
	touchRetryBaseDelay = 100 * time.Millisecond
)

// SendMessageInput carries the data needed to append a message. The receiver
// is deliberately absent: it is derived from the conversation row so a caller
// cannot spoof the destination.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Content        string
}

// SendMessageUseCase appends a message to its conversation's ordered log and
// fires the post-commit follow-ups: conversation metadata update, unread
// cache invalidation, realtime fan-out, and notification enqueue. Each
// follow-up is independent; none of their failures ever rolls back or
// un-acknowledges the committed message.
type SendMessageUseCase struct {
	Repo          repository.MessagingRepository
	Cache         cacheport.Cache
	Events        EventPublisher
	Notifications NotificationEnqueuer
	Log           *slog.Logger
}

func NewSendMessageUseCase(repo repository.MessagingRepository, cache cacheport.Cache, events EventPublisher, notifications NotificationEnqueuer, log *slog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Cache: cache, Events: events, Notifications: notifications, Log: log}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("conversationId and senderId are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return nil, messaging.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	receiverID, err := conv.OtherParticipant(in.SenderID)
	if err != nil {
		return nil, err
	}

	msg, err := messaging.NewMessage(conv.ID, in.SenderID, receiverID, in.Content)
	if err != nil {
		return nil, err
	}

	stored, err := uc.Repo.InsertMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	uc.afterCommit(ctx, conv, stored)
	return stored, nil
}

// afterCommit runs the follow-ups off a durably appended message. Failures
// here are logged and swallowed: the message is already committed and must
// still be acknowledged as sent.
func (uc *SendMessageUseCase) afterCommit(ctx context.Context, conv *messaging.Conversation, msg *messaging.Message) {
	snippet := messaging.Snippet(msg.Content, snippetMaxLen)
	uc.touchWithRetry(ctx, conv.ID, msg.CreatedAt, snippet)

	if uc.Cache != nil {
		if _, err := uc.Cache.Del(ctx, unreadCacheKey(conv.ID, msg.ReceiverID)); err != nil {
			uc.Log.Warn("unread cache invalidation failed", "conversation_id", conv.ID, "error", err)
		}
	}

	if uc.Events != nil {
		updated := *conv
		updated.LastMessageAt = &msg.CreatedAt
		updated.LastMessageSnippet = &snippet

		for _, userID := range []string{msg.SenderID, msg.ReceiverID} {
			uc.Events.Publish(userID, messaging.MessageInserted(*msg))
			uc.Events.Publish(userID, messaging.ConversationUpdated(updated))
		}
	}

	if uc.Notifications != nil {
		if err := uc.Notifications.EnqueueMessageNotification(ctx, *msg); err != nil {
			uc.Log.Warn("notification enqueue failed", "message_id", msg.ID, "error", err)
		}
	}
}

// touchWithRetry updates the conversation's last-message metadata. The
// update is retried independently of the append and its final failure is
// only logged.
func (uc *SendMessageUseCase) touchWithRetry(ctx context.Context, conversationID string, at time.Time, snippet string) {
	var err error
	for attempt := 0; attempt < touchRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				uc.Log.Warn("conversation metadata update abandoned", "conversation_id", conversationID, "error", ctx.Err())
				return
			case <-time.After(touchRetryBaseDelay << attempt):
			}
		}
		if err = uc.Repo.TouchConversation(ctx, conversationID, at, snippet); err == nil {
			return
		}
	}
	uc.Log.Warn("conversation metadata update failed after retries",
		"conversation_id", conversationID, "attempts", touchRetryAttempts, "error", err)
}
