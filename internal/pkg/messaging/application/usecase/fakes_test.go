package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

// fakeRepository emulates the Postgres adapter's contract in memory: the
// uniqueness constraint on the canonical pair, the storage-assigned commit
// clock, and ordered range scans. Failure injection hooks let tests exercise
// the follow-up and retry paths.
type fakeRepository struct {
	mu     sync.Mutex
	convs  map[string]*messaging.Conversation
	msgs   []messaging.Message
	seq    int
	clock  time.Time
	convID int

	insertMessageErrs int // fail this many InsertMessage calls, then succeed
	touchErrs         int // fail this many TouchConversation calls, then succeed
	countErr          error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		convs: make(map[string]*messaging.Conversation),
		clock: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	}
}

var _ repository.MessagingRepository = (*fakeRepository)(nil)

func pairKey(low, high string, listingID *string) string {
	l := ""
	if listingID != nil {
		l = *listingID
	}
	return low + "|" + high + "|" + l
}

func (r *fakeRepository) FindConversation(_ context.Context, low, high string, listingID *string) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if pairKey(c.ParticipantLowID, c.ParticipantHighID, c.ListingID) == pairKey(low, high, listingID) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, messaging.ErrNotFound
}

func (r *fakeRepository) InsertConversation(_ context.Context, c messaging.Conversation) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.convs {
		if pairKey(existing.ParticipantLowID, existing.ParticipantHighID, existing.ListingID) == pairKey(c.ParticipantLowID, c.ParticipantHighID, c.ListingID) {
			return nil, messaging.ErrConversationExists
		}
	}
	r.convID++
	c.ID = fmt.Sprintf("c%d", r.convID)
	c.CreatedAt = r.tick()
	r.convs[c.ID] = &c
	copied := c
	return &copied, nil
}

func (r *fakeRepository) GetConversation(_ context.Context, id string) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, messaging.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepository) ListConversations(_ context.Context, userID string) ([]messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Conversation
	for _, c := range r.convs {
		if c.ParticipantLowID == userID || c.ParticipantHighID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].LastMessageAt, out[j].LastMessageAt
		switch {
		case ti != nil && tj != nil:
			return ti.After(*tj)
		case ti != nil:
			return true
		case tj != nil:
			return false
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return out, nil
}

func (r *fakeRepository) InsertMessage(_ context.Context, m messaging.Message) (*messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertMessageErrs > 0 {
		r.insertMessageErrs--
		return nil, fmt.Errorf("storage temporarily unavailable")
	}
	r.seq++
	m.ID = fmt.Sprintf("m%04d", r.seq)
	m.CreatedAt = r.tick()
	r.msgs = append(r.msgs, m)
	copied := m
	return &copied, nil
}

func (r *fakeRepository) ListMessages(_ context.Context, conversationID string, cursor *repository.Cursor, limit int) ([]messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []messaging.Message
	for _, m := range r.msgs {
		if m.ConversationID != conversationID {
			continue
		}
		if cursor != nil {
			if m.CreatedAt.Before(cursor.CreatedAt) {
				continue
			}
			if m.CreatedAt.Equal(cursor.CreatedAt) && m.ID <= cursor.ID {
				continue
			}
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepository) MarkMessagesRead(_ context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if m.ConversationID == conversationID && m.ReceiverID == readerID && !m.Read {
			m.Read = true
			readAt := at
			m.ReadAt = &readAt
			marked++
		}
	}
	return marked, nil
}

func (r *fakeRepository) CountUnread(_ context.Context, conversationID, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.ReceiverID == userID && !m.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepository) TouchConversation(_ context.Context, id string, lastMessageAt time.Time, snippet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErrs > 0 {
		r.touchErrs--
		return fmt.Errorf("storage temporarily unavailable")
	}
	c, ok := r.convs[id]
	if !ok {
		return messaging.ErrNotFound
	}
	at := lastMessageAt
	s := snippet
	c.LastMessageAt = &at
	c.LastMessageSnippet = &s
	return nil
}

// tick advances the fake commit clock; callers hold r.mu.
func (r *fakeRepository) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

// fakePublisher records published events per user.
type fakePublisher struct {
	mu     sync.Mutex
	events map[string][]messaging.ChangeEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(map[string][]messaging.ChangeEvent)}
}

func (p *fakePublisher) Publish(userID string, ev messaging.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[userID] = append(p.events[userID], ev)
}

func (p *fakePublisher) forUser(userID string) []messaging.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]messaging.ChangeEvent(nil), p.events[userID]...)
}

// fakeEnqueuer records notification enqueues and can be made to fail.
type fakeEnqueuer struct {
	mu       sync.Mutex
	enqueued []messaging.Message
	err      error
}

func (e *fakeEnqueuer) EnqueueMessageNotification(_ context.Context, m messaging.Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.enqueued = append(e.enqueued, m)
	return nil
}

func (e *fakeEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.enqueued)
}

// fakeCache is a map-backed cacheport.Cache; TTLs are ignored.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

var _ cacheport.Cache = (*fakeCache)(nil)

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

// fakeListings answers listing existence from a fixed set.
type fakeListings struct {
	known map[string]bool
	err   error
}

func (l *fakeListings) Exists(_ context.Context, listingID string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.known[listingID], nil
}
