package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

const unreadCacheTTL = 5 * time.Minute

// UnreadCountInput identifies the (conversation, user) pair to count for.
type UnreadCountInput struct {
	ConversationID string
	UserID         string
}

// UnreadCountUseCase serves the number of unread messages addressed to a
// user in a conversation. The redis entry is a TTL-bounded optimization in
// front of the authoritative COUNT; any cache anomaly falls back to the
// database, so the served value always reconciles to storage.
type UnreadCountUseCase struct {
	Repo  repository.MessagingRepository
	Cache cacheport.Cache
	Log   *slog.Logger
}

func NewUnreadCountUseCase(repo repository.MessagingRepository, cache cacheport.Cache, log *slog.Logger) *UnreadCountUseCase {
	return &UnreadCountUseCase{Repo: repo, Cache: cache, Log: log}
}

func (uc *UnreadCountUseCase) Execute(ctx context.Context, in UnreadCountInput) (int, error) {
	if in.ConversationID == "" || in.UserID == "" {
		return 0, fmt.Errorf("conversationId and userId are required")
	}

	key := unreadCacheKey(in.ConversationID, in.UserID)
	if uc.Cache != nil {
		if cached, err := uc.Cache.Get(ctx, key); err == nil {
			if n, convErr := strconv.Atoi(cached); convErr == nil {
				return n, nil
			}
		} else if !errors.Is(err, cacheport.ErrMiss) {
			uc.Log.Warn("unread cache read failed", "conversation_id", in.ConversationID, "error", err)
		}
	}

	n, err := uc.Repo.CountUnread(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, key, strconv.Itoa(n), unreadCacheTTL); err != nil {
			uc.Log.Warn("unread cache write failed", "conversation_id", in.ConversationID, "error", err)
		}
	}
	return n, nil
}
