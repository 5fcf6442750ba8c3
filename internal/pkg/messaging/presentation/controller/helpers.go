package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/usecase"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

// identityHeader carries the authenticated caller id, supplied by the
// upstream identity layer. This service trusts it and does no auth of its
// own.
const identityHeader = "X-User-ID"

// callerID extracts the authenticated user id or writes a 401 and returns
// false.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(identityHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "caller identity is required"})
		return "", false
	}
	return id, true
}

// statusFor maps domain and use case errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, messaging.ErrInvalidParticipants),
		errors.Is(err, messaging.ErrEmptyContent),
		errors.Is(err, repository.ErrBadCursor):
		return http.StatusBadRequest
	case errors.Is(err, messaging.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, messaging.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, messaging.ErrInvalidContext):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func messagePayload(m messaging.Message) gin.H {
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"receiver_id":     m.ReceiverID,
		"content":         m.Content,
		"read":            m.Read,
		"read_at":         m.ReadAt,
		"created_at":      m.CreatedAt,
	}
}

func conversationPayload(conv messaging.Conversation) gin.H {
	return gin.H{
		"id":                   conv.ID,
		"participant_low_id":   conv.ParticipantLowID,
		"participant_high_id":  conv.ParticipantHighID,
		"listing_id":           conv.ListingID,
		"last_message_at":      conv.LastMessageAt,
		"last_message_snippet": conv.LastMessageSnippet,
		"created_at":           conv.CreatedAt,
	}
}
