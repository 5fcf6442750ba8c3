package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/collaborator"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/adapter"
)

// ResolveConversationController handles the resolve-or-create endpoint (one
// controller per endpoint).
type ResolveConversationController struct {
	UC *usecase.ResolveConversationUseCase
}

func NewResolveConversationController(pool *pgxpool.Pool, log *slog.Logger) *ResolveConversationController {
	repo := adapter.NewPgMessagingRepository(pool)
	listings := collaborator.NewPgListingDirectory(pool)
	return &ResolveConversationController{
		UC: usecase.NewResolveConversationUseCase(repo, listings, log),
	}
}

type resolveConversationRequest struct {
	ParticipantID string  `json:"participant_id" binding:"required"`
	ListingID     *string `json:"listing_id"`
}

func (h *ResolveConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerID(c)
		if !ok {
			return
		}

		var req resolveConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.ResolveConversationInput{
			PartyA:    caller,
			PartyB:    req.ParticipantID,
			ListingID: req.ListingID,
		})
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conversationPayload(*conv))
	}
}
