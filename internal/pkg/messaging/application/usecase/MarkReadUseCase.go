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

// MarkReadInput identifies whose unread messages in which conversation to
// transition to read.
type MarkReadInput struct {
	ConversationID string
	ReaderID       string
}

// MarkReadUseCase drives the one-way New -> Read transition for every
// message addressed to the reader. Idempotent: a call with nothing left to
// mark is a no-op, never an error. A message appended concurrently is simply
// new and unread afterwards.
type MarkReadUseCase struct {
	Repo   repository.MessagingRepository
	Cache  cacheport.Cache
	Events EventPublisher
	Log    *slog.Logger
}

func NewMarkReadUseCase(repo repository.MessagingRepository, cache cacheport.Cache, events EventPublisher, log *slog.Logger) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo, Cache: cache, Events: events, Log: log}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	if in.ConversationID == "" || in.ReaderID == "" {
		return fmt.Errorf("conversationId and readerId are required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, messaging.ErrNotFound) {
			return messaging.ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.ReaderID) {
		return messaging.ErrUnauthorized
	}

	marked, err := uc.Repo.MarkMessagesRead(ctx, in.ConversationID, in.ReaderID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, unreadCacheKey(in.ConversationID, in.ReaderID), "0", unreadCacheTTL); err != nil {
			uc.Log.Warn("unread cache reset failed", "conversation_id", in.ConversationID, "error", err)
		}
	}

	if marked > 0 && uc.Events != nil {
		ev := messaging.ConversationUpdated(*conv)
		uc.Events.Publish(conv.ParticipantLowID, ev)
		uc.Events.Publish(conv.ParticipantHighID, ev)
	}
	return nil
}
