package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ListMessagesController handles fetching a conversation page by cursor (one
// controller per endpoint).
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(pool *pgxpool.Pool) *ListMessagesController {
	repo := adapter.NewPgMessagingRepository(pool)
	return &ListMessagesController{UC: usecase.NewListMessagesUseCase(repo)}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		limit := 50
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		in := usecase.ListMessagesInput{
			ConversationID: conversationID,
			RequesterID:    caller,
			Cursor:         c.Query("cursor"),
			Limit:          limit,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, in)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": lo.Map(out.Messages, func(m messaging.Message, _ int) gin.H {
				return messagePayload(m)
			}),
			"next_cursor": out.NextCursor,
			"count":       len(out.Messages),
		})
	}
}
