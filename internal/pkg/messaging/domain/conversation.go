package messaging

import (
	"time"
)

// Conversation is the single durable thread between two marketplace users,
// optionally scoped to a listing. The participant pair is stored in canonical
// order (low < high) so either caller order maps to the same row; uniqueness
// on (low, high, listing) is enforced by storage.
type Conversation struct {
	ID                 string     `db:"id"`
	ParticipantLowID   string     `db:"participant_low_id"`
	ParticipantHighID  string     `db:"participant_high_id"`
	ListingID          *string    `db:"listing_id"`
	LastMessageAt      *time.Time `db:"last_message_at"`
	LastMessageSnippet *string    `db:"last_message_snippet"`
	CreatedAt          time.Time  `db:"created_at"`
}

// CanonicalPair orders two participant ids so that the same unordered pair
// always produces the same (low, high) tuple. Equal or blank ids are invalid.
func CanonicalPair(a, b string) (low, high string, err error) {
	if a == "" || b == "" || a == b {
		return "", "", ErrInvalidParticipants
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// HasParticipant tells whether userID is one of the two parties.
func (c *Conversation) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	return userID == c.ParticipantLowID || userID == c.ParticipantHighID
}

// OtherParticipant derives the receiver for a message sent by senderID.
// The receiver is never accepted from callers; it is always computed here
// so a sender cannot spoof the destination.
func (c *Conversation) OtherParticipant(senderID string) (string, error) {
	switch senderID {
	case c.ParticipantLowID:
		return c.ParticipantHighID, nil
	case c.ParticipantHighID:
		return c.ParticipantLowID, nil
	default:
		return "", ErrUnauthorized
	}
}

// Snippet produces the conversation preview stored alongside metadata.
// Long content is cut at maxLen runes.
func Snippet(content string, maxLen int) string {
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen])
}
