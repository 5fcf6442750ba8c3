package repository

import (
	"context"
	"time"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

// MessagingRepository defines persistence operations for conversations and
// their message logs.
//
// Contract notes:
//   - FindConversation and GetConversation return messaging.ErrNotFound when
//     no row matches.
//   - InsertConversation returns messaging.ErrConversationExists when the
//     canonical (low, high, listing) tuple already has a row; callers absorb
//     the race by re-reading.
//   - InsertMessage assigns id and created_at from the database commit clock
//     and returns the stored row.
type MessagingRepository interface {
	FindConversation(ctx context.Context, low, high string, listingID *string) (*messaging.Conversation, error)
	InsertConversation(ctx context.Context, c messaging.Conversation) (*messaging.Conversation, error)
	GetConversation(ctx context.Context, id string) (*messaging.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]messaging.Conversation, error)

	InsertMessage(ctx context.Context, m messaging.Message) (*messaging.Message, error)
	ListMessages(ctx context.Context, conversationID string, cursor *Cursor, limit int) ([]messaging.Message, error)

	MarkMessagesRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error)
	CountUnread(ctx context.Context, conversationID, userID string) (int, error)

	TouchConversation(ctx context.Context, id string, lastMessageAt time.Time, snippet string) error
}
