package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cursor is a keyset pagination token over the message order
// (created_at, id). Listing resumes strictly after the pair it encodes,
// so a restarted scan never repeats or skips committed rows.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// ErrBadCursor signals an opaque token that could not be decoded.
var ErrBadCursor = errors.New("repository: malformed cursor")

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%s|%s", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Encode. An empty token yields a
// nil cursor, meaning "from the beginning".
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrBadCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, ErrBadCursor
	}
	at, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, ErrBadCursor
	}
	return &Cursor{CreatedAt: at, ID: parts[1]}, nil
}
