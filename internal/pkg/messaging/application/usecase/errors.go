package usecase

import (
	"context"
	"fmt"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Callers may retry a bounded number of times; domain errors
// (unauthorized, validation, not found) are never wrapped in it.
var ErrPersistence = fmt.Errorf("messaging use case persistence error")

// EventPublisher pushes committed change events to a user's live
// subscribers. Implementations must never block the caller.
type EventPublisher interface {
	Publish(userID string, ev messaging.ChangeEvent)
}

// NotificationEnqueuer hands a committed message off for asynchronous
// off-band notification of its receiver.
type NotificationEnqueuer interface {
	EnqueueMessageNotification(ctx context.Context, m messaging.Message) error
}

func unreadCacheKey(conversationID, userID string) string {
	return "unread:" + conversationID + ":" + userID
}
