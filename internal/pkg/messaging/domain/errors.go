package messaging

import "errors"

// Domain-level errors for messaging behaviors
var (
	ErrInvalidParticipants = errors.New("messaging: conversation requires two distinct participants")
	ErrUnauthorized        = errors.New("messaging: sender is not a participant in the conversation")
	ErrEmptyContent        = errors.New("messaging: message content is empty")
	ErrInvalidContext      = errors.New("messaging: listing reference does not resolve")
	ErrNotFound            = errors.New("messaging: not found")
	ErrConversationExists  = errors.New("messaging: conversation already exists for this pair and listing")
)
