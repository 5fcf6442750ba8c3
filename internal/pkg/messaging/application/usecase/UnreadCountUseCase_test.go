package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_UnreadCount_Matches_Live_Rows_After_Each_Transition(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	conv := seedConversation(t, repo)
	send := NewSendMessageUseCase(repo, nil, nil, nil, slog.Default())
	markRead := NewMarkReadUseCase(repo, nil, nil, slog.Default())
	unread := NewUnreadCountUseCase(repo, nil, slog.Default())

	check := func(userID string) {
		t.Helper()
		served, err := unread.Execute(context.Background(), UnreadCountInput{ConversationID: conv.ID, UserID: userID})
		req.NoError(err)
		live, err := repo.CountUnread(context.Background(), conv.ID, userID)
		req.NoError(err)
		req.Equal(live, served)
	}

	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "u1", Content: "one"})
	req.NoError(err)
	check("u2")

	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "u2", Content: "two"})
	req.NoError(err)
	check("u1")
	check("u2")

	req.NoError(markRead.Execute(context.Background(), MarkReadInput{ConversationID: conv.ID, ReaderID: "u2"}))
	check("u2")
}

func Test_UnreadCount_Cache_Reconciles_To_Storage(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	conv := seedConversation(t, repo)
	cache := newFakeCache()
	send := NewSendMessageUseCase(repo, cache, nil, nil, slog.Default())
	unread := NewUnreadCountUseCase(repo, cache, slog.Default())

	_, err := send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "u1", Content: "one"})
	req.NoError(err)

	// First read populates the cache from the authoritative count.
	n, err := unread.Execute(context.Background(), UnreadCountInput{ConversationID: conv.ID, UserID: "u2"})
	req.NoError(err)
	req.Equal(1, n)
	cached, err := cache.Get(context.Background(), unreadCacheKey(conv.ID, "u2"))
	req.NoError(err)
	req.Equal("1", cached)

	// Appending invalidates, so the next read recomputes instead of serving stale.
	_, err = send.Execute(context.Background(), SendMessageInput{ConversationID: conv.ID, SenderID: "u1", Content: "two"})
	req.NoError(err)
	n, err = unread.Execute(context.Background(), UnreadCountInput{ConversationID: conv.ID, UserID: "u2"})
	req.NoError(err)
	req.Equal(2, n)
}

func Test_UnreadCount_Serves_Cache_Hit(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	conv := seedConversation(t, repo)
	cache := newFakeCache()
	unread := NewUnreadCountUseCase(repo, cache, slog.Default())

	req.NoError(cache.Set(context.Background(), unreadCacheKey(conv.ID, "u2"), "7", 0))
	repo.countErr = fmt.Errorf("storage must not be consulted on a hit")

	n, err := unread.Execute(context.Background(), UnreadCountInput{ConversationID: conv.ID, UserID: "u2"})
	req.NoError(err)
	req.Equal(7, n)
}

func Test_UnreadCount_Persistence_Failure_Is_Explicit(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	conv := seedConversation(t, repo)
	repo.countErr = fmt.Errorf("storage down")
	unread := NewUnreadCountUseCase(repo, nil, slog.Default())

	_, err := unread.Execute(context.Background(), UnreadCountInput{ConversationID: conv.ID, UserID: "u2"})
	req.ErrorIs(err, ErrPersistence)
}
