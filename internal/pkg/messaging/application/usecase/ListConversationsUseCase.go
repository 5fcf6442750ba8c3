package usecase

import (
	"context"
	"fmt"
	"log/slog"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListConversationsInput identifies whose conversation index to fetch.
type ListConversationsInput struct {
	UserID string
}

// ConversationSummary pairs a conversation with the requesting user's
// server-computed unread count. Clients treat this as the source of truth
// and never derive counts locally.
type ConversationSummary struct {
	Conversation messaging.Conversation
	UnreadCount  int
}

// ListConversationsUseCase returns a user's conversations ordered by most
// recent activity, each with its unread count.
type ListConversationsUseCase struct {
	Repo   repository.MessagingRepository
	Unread *UnreadCountUseCase
	Log    *slog.Logger
}

func NewListConversationsUseCase(repo repository.MessagingRepository, unread *UnreadCountUseCase, log *slog.Logger) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Unread: unread, Log: log}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationSummary, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	convs, err := uc.Repo.ListConversations(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		n, err := uc.Unread.Execute(ctx, UnreadCountInput{ConversationID: conv.ID, UserID: in.UserID})
		if err != nil {
			// The index is still useful without one count; log and move on.
			uc.Log.Warn("unread count unavailable for conversation", "conversation_id", conv.ID, "error", err)
			n = 0
		}
		summaries = append(summaries, ConversationSummary{Conversation: conv, UnreadCount: n})
	}
	return summaries, nil
}
