package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ListConversationsController serves the caller's conversation index, newest
// activity first, with server-computed unread counts (one controller per
// endpoint).
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool, cache cacheport.Cache, log *slog.Logger) *ListConversationsController {
	repo := adapter.NewPgMessagingRepository(pool)
	unread := usecase.NewUnreadCountUseCase(repo, cache, log)
	return &ListConversationsController{
		UC: usecase.NewListConversationsUseCase(repo, unread, log),
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListConversationsInput{UserID: caller})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"conversations": lo.Map(summaries, func(s usecase.ConversationSummary, _ int) gin.H {
				payload := conversationPayload(s.Conversation)
				payload["unread_count"] = s.UnreadCount
				return payload
			}),
			"count": len(summaries),
		})
	}
}
