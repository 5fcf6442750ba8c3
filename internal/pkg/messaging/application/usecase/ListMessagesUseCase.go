package usecase

import (
	"context"
	"errors"
	"fmt"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ListMessagesInput selects a page of a conversation's log. Cursor is the
// opaque token returned by a previous call; empty means from the beginning.
type ListMessagesInput struct {
	ConversationID string
	RequesterID    string
	Cursor         string
	Limit          int
}

// ListMessagesOutput is one page in ascending (created_at, id) order.
// NextCursor is empty when the page was not full.
type ListMessagesOutput struct {
	Messages   []messaging.Message
	NextCursor string
}

// ListMessagesUseCase reads a conversation's ordered log. Purely read-only.
type ListMessagesUseCase struct {
	Repo repository.MessagingRepository
}

func NewListMessagesUseCase(repo repository.MessagingRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Repo: repo}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) (*ListMessagesOutput, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("conversationId is required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return nil, messaging.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if in.RequesterID != "" && !conv.HasParticipant(in.RequesterID) {
		return nil, messaging.ErrUnauthorized
	}

	cursor, err := repository.DecodeCursor(in.Cursor)
	if err != nil {
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	out := &ListMessagesOutput{Messages: msgs}
	if len(msgs) == limit {
		last := msgs[len(msgs)-1]
		out.NextCursor = repository.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return out, nil
}
