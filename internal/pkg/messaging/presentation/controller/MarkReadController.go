package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// MarkReadController handles the mark-read endpoint (one controller per
// endpoint).
type MarkReadController struct {
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(pool *pgxpool.Pool, cache cacheport.Cache, events usecase.EventPublisher, log *slog.Logger) *MarkReadController {
	repo := adapter.NewPgMessagingRepository(pool)
	return &MarkReadController{UC: usecase.NewMarkReadUseCase(repo, cache, events, log)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
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

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.MarkReadInput{
			ConversationID: conversationID,
			ReaderID:       caller,
		})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
