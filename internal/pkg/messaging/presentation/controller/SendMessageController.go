package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// sendRetryAttempts bounds how often a transient storage failure on append
// is retried before the caller gets an explicit not-sent result.
const sendRetryAttempts = 3

// SendMessageController handles the send-message endpoint (one controller
// per endpoint). A message is acknowledged only after a durable append; a
// failed append is reported as not sent, never silently dropped.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, cache cacheport.Cache, events usecase.EventPublisher, notifications usecase.NotificationEnqueuer, log *slog.Logger) *SendMessageController {
	repo := adapter.NewPgMessagingRepository(pool)
	return &SendMessageController{
		UC: usecase.NewSendMessageUseCase(repo, cache, events, notifications, log),
	}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
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

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		in := usecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       caller,
			Content:        req.Content,
		}

		var lastErr error
		for attempt := 0; attempt < sendRetryAttempts; attempt++ {
			msg, err := h.UC.Execute(ctx, in)
			if err == nil {
				c.JSON(http.StatusCreated, messagePayload(*msg))
				return
			}
			lastErr = err
			if !errors.Is(err, usecase.ErrPersistence) {
				// Domain rejections are final; retrying cannot change them.
				c.JSON(statusFor(err), gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_sent",
			"error":  lastErr.Error(),
		})
	}
}
