package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

const uniqueViolation = "23505"

type PgMessagingRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessagingRepository(pool *pgxpool.Pool) *PgMessagingRepository {
	return &PgMessagingRepository{pool: pool}
}

var _ repository.MessagingRepository = (*PgMessagingRepository)(nil)

const conversationColumns = `id::text, participant_low_id, participant_high_id, listing_id, last_message_at, last_message_snippet, created_at`

func (r *PgMessagingRepository) FindConversation(ctx context.Context, low, high string, listingID *string) (*messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE participant_low_id = $1
		  AND participant_high_id = $2
		  AND listing_id IS NOT DISTINCT FROM $3
	`, low, high, listingID)
	return scanConversation(row)
}

func (r *PgMessagingRepository) InsertConversation(ctx context.Context, c messaging.Conversation) (*messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (participant_low_id, participant_high_id, listing_id)
		VALUES ($1, $2, $3)
		RETURNING `+conversationColumns+`
	`, c.ParticipantLowID, c.ParticipantHighID, c.ListingID)
	conv, err := scanConversation(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, messaging.ErrConversationExists
		}
		return nil, err
	}
	return conv, nil
}

func (r *PgMessagingRepository) GetConversation(ctx context.Context, id string) (*messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE id = $1::uuid
	`, id)
	return scanConversation(row)
}

func (r *PgMessagingRepository) ListConversations(ctx context.Context, userID string) ([]messaging.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE participant_low_id = $1 OR participant_high_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []messaging.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, *conv)
	}
	return convs, rows.Err()
}

// InsertMessage lets the database assign both id and created_at so that the
// total order within a conversation reflects arrival at storage, not client
// clocks.
func (r *PgMessagingRepository) InsertMessage(ctx context.Context, m messaging.Message) (*messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	stored := m
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender_id, receiver_id, content)
		VALUES ($1::uuid, $2, $3, $4)
		RETURNING id::text, created_at
	`, m.ConversationID, m.SenderID, m.ReceiverID, m.Content).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PgMessagingRepository) ListMessages(ctx context.Context, conversationID string, cursor *repository.Cursor, limit int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessagingRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if cursor == nil {
		rows, err = r.pool.Query(ctx, `
			SELECT id::text, conversation_id::text, sender_id, receiver_id, content, read, read_at, created_at
			FROM messages
			WHERE conversation_id = $1::uuid
			ORDER BY created_at ASC, id ASC
			LIMIT $2
		`, conversationID, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id::text, conversation_id::text, sender_id, receiver_id, content, read, read_at, created_at
			FROM messages
			WHERE conversation_id = $1::uuid
			  AND (created_at, id) > ($2, $3::uuid)
			ORDER BY created_at ASC, id ASC
			LIMIT $4
		`, conversationID, cursor.CreatedAt, cursor.ID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		var msg messaging.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Read, &msg.ReadAt, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkMessagesRead flips every unread message addressed to readerID. Zero
// rows affected is a valid outcome, not an error: the call is idempotent.
func (r *PgMessagingRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET read = TRUE, read_at = $3
		WHERE conversation_id = $1::uuid AND receiver_id = $2 AND read = FALSE
	`, conversationID, readerID, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessagingRepository) CountUnread(ctx context.Context, conversationID, userID string) (int, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessagingRepository: nil pool")
	}
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1::uuid AND receiver_id = $2 AND read = FALSE
	`, conversationID, userID).Scan(&n)
	return n, err
}

func (r *PgMessagingRepository) TouchConversation(ctx context.Context, id string, lastMessageAt time.Time, snippet string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessagingRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE conversations
		SET last_message_at = $2, last_message_snippet = $3
		WHERE id = $1::uuid
	`, id, lastMessageAt, snippet)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return messaging.ErrNotFound
	}
	return nil
}

func scanConversation(row pgx.Row) (*messaging.Conversation, error) {
	var c messaging.Conversation
	err := row.Scan(&c.ID, &c.ParticipantLowID, &c.ParticipantHighID, &c.ListingID, &c.LastMessageAt, &c.LastMessageSnippet, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, messaging.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
